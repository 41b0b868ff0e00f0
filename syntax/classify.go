package syntax

import (
	"strings"

	"github.com/deepnoodle-ai/sandbox/ast"
)

// keywordOf returns the canonical keyword governing node. Several surface
// forms share one keyword: an else branch is policed as "if", a foreach
// loop as "for" and print as "echo".
func keywordOf(node ast.Node) (string, bool) {
	switch node.(type) {
	case *ast.If, *ast.ElseIf, *ast.Else:
		return "if", true
	case *ast.While, *ast.Do:
		return "while", true
	case *ast.For, *ast.Foreach:
		return "for", true
	case *ast.Switch, *ast.Case:
		return "switch", true
	case *ast.Try, *ast.Catch, *ast.Finally:
		return "try", true
	case *ast.Throw:
		return "throw", true
	case *ast.Break:
		return "break", true
	case *ast.Return:
		return "return", true
	case *ast.Unset:
		return "unset", true
	case *ast.StaticVarStmt:
		return "static", true
	case *ast.Declare, *ast.DeclareItem:
		return "declare", true
	case *ast.Goto, *ast.Label:
		return "goto", true
	case *ast.InstanceOf:
		return "instanceof", true
	case *ast.Isset:
		return "isset", true
	case *ast.List:
		return "list", true
	case *ast.Echo, *ast.Print:
		return "echo", true
	case *ast.Clone:
		return "clone", true
	case *ast.Empty:
		return "empty", true
	case *ast.Eval:
		return "eval", true
	case *ast.Exit:
		return "exit", true
	case *ast.Include:
		return "include", true
	}
	return "", false
}

// operatorOf returns the canonical operator symbol of node. Unary sign
// and increment forms are told apart from their binary counterparts by
// the position of "n", e.g. "-n" and "n++".
func operatorOf(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.Assign:
		return "=", true
	case *ast.AssignOp:
		return n.Op, true
	case *ast.AssignRef:
		return "=&", true
	case *ast.BinaryOp:
		return n.Op, true
	case *ast.Unary:
		switch n.Op {
		case "-", "+":
			return n.Op + "n", true
		}
		return n.Op, true
	case *ast.IncDec:
		if n.Prefix {
			return n.Op + "n", true
		}
		return "n" + n.Op, true
	case *ast.Ternary:
		return "?", true
	}
	return "", false
}

// primitiveOf returns the primitive type produced by a literal or cast.
// An unset cast produces no primitive.
func primitiveOf(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.Cast:
		if n.Type == ast.CastUnset {
			return "", false
		}
		return string(n.Type), true
	case *ast.Array:
		return "array", true
	case *ast.String, *ast.Interpolated:
		return "string", true
	case *ast.Float:
		return "float", true
	case *ast.Int:
		return "int", true
	}
	return "", false
}

// literalConsts are language literals parsed as constant fetches. They are
// never subject to the constant lists.
var literalConsts = map[string]struct{}{
	"true":  {},
	"false": {},
	"null":  {},
}

func isLiteralConst(name string) bool {
	_, ok := literalConsts[strings.ToLower(name)]
	return ok
}
