package ast

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
)

// ErrInvalidChange is returned by Rewrite when a Leaver asks for a change
// that the node's position in the tree cannot hold, such as removing an
// expression operand or replacing a statement with an expression.
var ErrInvalidChange = errors.New("ast: invalid change")

type changeOp int

const (
	opKeep changeOp = iota
	opReplace
	opRemove
	opSplice
)

func (op changeOp) String() string {
	switch op {
	case opReplace:
		return "replace"
	case opRemove:
		return "remove"
	case opSplice:
		return "splice"
	default:
		return "keep"
	}
}

// Change tells Rewrite what to do with a node once its Leaver has run.
type Change struct {
	op    changeOp
	node  Node
	stmts []Stmt
}

// Keep leaves the node in place.
var Keep = Change{}

// Replace substitutes n for the node. The replacement is not traversed.
func Replace(n Node) Change { return Change{op: opReplace, node: n} }

// Remove drops the node from the list that holds it.
func Remove() Change { return Change{op: opRemove} }

// Splice replaces the node with stmts, in order, inside the list that
// holds it. The spliced statements are not traversed.
func Splice(stmts []Stmt) Change { return Change{op: opSplice, stmts: stmts} }

// Leaver is called by Rewrite for every node after the node's children
// have been rewritten.
type Leaver interface {
	Leave(node Node) (Change, error)
}

// LeaverFunc is an adapter to use a function as a Leaver.
type LeaverFunc func(Node) (Change, error)

// Leave implements the Leaver interface.
func (f LeaverFunc) Leave(n Node) (Change, error) { return f(n) }

// Rewrite traverses the tree rooted at program depth-first and post-order,
// applying the Change returned by l for each node. Children are rewritten
// in source order before their parent is left. The first error returned by
// l stops the traversal and is returned unchanged.
//
// The input tree is never modified. Every node on the path to a change is
// copied, so the returned program shares unchanged subtrees with the input
// and is program itself when nothing changed.
func Rewrite(program *Program, l Leaver) (*Program, error) {
	t := &traversal{leave: l}
	c, err := t.visit(program)
	if err != nil {
		return nil, err
	}
	if c.op == opReplace {
		if p, ok := c.node.(*Program); ok && p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("%w: cannot replace %s with %s", ErrInvalidChange, KindProgram, kindOf(c.node))
	}
	if c.op != opKeep {
		return nil, fmt.Errorf("%w: cannot %s %s", ErrInvalidChange, c.op, KindProgram)
	}
	return program, nil
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	t := &traversal{enter: f}
	t.visit(node)
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stopped := false
		Inspect(root, func(n Node) bool {
			if stopped {
				return false
			}
			if !yield(n) {
				stopped = true
				return false
			}
			return true
		})
	}
}

type traversal struct {
	enter func(Node) bool
	leave Leaver
	edits int // changes applied so far
}

func (t *traversal) visit(n Node) (Change, error) {
	if t.enter != nil && !t.enter(n) {
		return Keep, nil
	}
	if t.leave == nil {
		return Keep, t.children(n)
	}
	// Children are rewritten into a shallow copy, kept only when one of
	// them changed.
	cp := shallowCopy(n)
	before := t.edits
	if err := t.children(cp); err != nil {
		return Keep, err
	}
	if t.edits == before {
		return t.leave.Leave(n)
	}
	c, err := t.leave.Leave(cp)
	if err == nil && c.op == opKeep {
		c = Replace(cp)
	}
	return c, err
}

// shallowCopy returns a copy of the struct n points to.
func shallowCopy(n Node) Node {
	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return n
	}
	cp := reflect.New(v.Elem().Type())
	cp.Elem().Set(v.Elem())
	return cp.Interface().(Node)
}

// DeepCopy returns a deep copy of n. Strings and name parts are shared.
func DeepCopy[T Node](n T) T {
	if isNil(n) {
		return n
	}
	t := &traversal{leave: LeaverFunc(func(n Node) (Change, error) {
		return Replace(shallowCopy(n)), nil
	})}
	c, _ := t.visit(n)
	return c.node.(T)
}

func kindOf(n Node) Kind {
	if isNil(n) {
		return KindInvalid
	}
	return n.Kind()
}

// one rewrites a node held in a single-node slot.
func one[T Node](t *traversal, n T) (T, error) {
	if isNil(n) {
		return n, nil
	}
	c, err := t.visit(n)
	if err != nil {
		return n, err
	}
	if c.op != opKeep {
		t.edits++
	}
	switch c.op {
	case opKeep:
		return n, nil
	case opReplace:
		r, ok := c.node.(T)
		if !ok || isNil(c.node) {
			return n, fmt.Errorf("%w: cannot replace %s with %s", ErrInvalidChange, n.Kind(), kindOf(c.node))
		}
		return r, nil
	default:
		return n, fmt.Errorf("%w: cannot %s %s outside of a list", ErrInvalidChange, c.op, n.Kind())
	}
}

// list rewrites a node list. The input slice is never modified; a new
// slice is returned when any element changed.
func list[T Node](t *traversal, nodes []T) ([]T, error) {
	var out []T
	changed := false
	for i, n := range nodes {
		if isNil(n) {
			if changed {
				out = append(out, n)
			}
			continue
		}
		c, err := t.visit(n)
		if err != nil {
			return nodes, err
		}
		if c.op == opKeep {
			if changed {
				out = append(out, n)
			}
			continue
		}
		t.edits++
		if !changed {
			out = append(make([]T, 0, len(nodes)), nodes[:i]...)
			changed = true
		}
		switch c.op {
		case opReplace:
			r, ok := c.node.(T)
			if !ok || isNil(c.node) {
				return nodes, fmt.Errorf("%w: cannot replace %s with %s", ErrInvalidChange, n.Kind(), kindOf(c.node))
			}
			out = append(out, r)
		case opSplice:
			for _, s := range c.stmts {
				r, ok := any(s).(T)
				if !ok {
					return nodes, fmt.Errorf("%w: cannot splice %s into a list of %s", ErrInvalidChange, kindOf(s), n.Kind())
				}
				out = append(out, r)
			}
		}
	}
	if !changed {
		return nodes, nil
	}
	return out, nil
}

func (t *traversal) children(node Node) (err error) {
	switch n := node.(type) {
	case *Program:
		n.Stmts, err = list(t, n.Stmts)

	// Declarations
	case *FuncDecl:
		if n.Params, err = list(t, n.Params); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Param:
		if n.Type, err = one(t, n.Type); err != nil {
			return err
		}
		n.Default, err = one(t, n.Default)
	case *Closure:
		if n.Params, err = list(t, n.Params); err != nil {
			return err
		}
		if n.Uses, err = list(t, n.Uses); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *ClassDecl:
		if n.Extends, err = one(t, n.Extends); err != nil {
			return err
		}
		if n.Implements, err = list(t, n.Implements); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *InterfaceDecl:
		if n.Extends, err = list(t, n.Extends); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *TraitDecl:
		n.Body, err = list(t, n.Body)
	case *TraitUse:
		n.Traits, err = list(t, n.Traits)
	case *ClassMethod:
		if n.Params, err = list(t, n.Params); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Property:
		n.Default, err = one(t, n.Default)
	case *ClassConst:
		n.Items, err = list(t, n.Items)
	case *ConstDecl:
		n.Items, err = list(t, n.Items)
	case *ConstItem:
		n.Value, err = one(t, n.Value)
	case *Namespace:
		if n.Name, err = one(t, n.Name); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Use:
		n.Items, err = list(t, n.Items)
	case *UseItem:
		n.Name, err = one(t, n.Name)

	// Statements
	case *Echo:
		n.Exprs, err = list(t, n.Exprs)
	case *ExprStmt:
		n.X, err = one(t, n.X)
	case *If:
		if n.Cond, err = one(t, n.Cond); err != nil {
			return err
		}
		if n.Body, err = list(t, n.Body); err != nil {
			return err
		}
		if n.ElseIfs, err = list(t, n.ElseIfs); err != nil {
			return err
		}
		n.Else, err = one(t, n.Else)
	case *ElseIf:
		if n.Cond, err = one(t, n.Cond); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Else:
		n.Body, err = list(t, n.Body)
	case *While:
		if n.Cond, err = one(t, n.Cond); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Do:
		if n.Body, err = list(t, n.Body); err != nil {
			return err
		}
		n.Cond, err = one(t, n.Cond)
	case *For:
		if n.Init, err = list(t, n.Init); err != nil {
			return err
		}
		if n.Cond, err = list(t, n.Cond); err != nil {
			return err
		}
		if n.Loop, err = list(t, n.Loop); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Foreach:
		if n.X, err = one(t, n.X); err != nil {
			return err
		}
		if n.Key, err = one(t, n.Key); err != nil {
			return err
		}
		if n.Value, err = one(t, n.Value); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Switch:
		if n.Cond, err = one(t, n.Cond); err != nil {
			return err
		}
		n.Cases, err = list(t, n.Cases)
	case *Case:
		if n.Cond, err = one(t, n.Cond); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Try:
		if n.Body, err = list(t, n.Body); err != nil {
			return err
		}
		if n.Catches, err = list(t, n.Catches); err != nil {
			return err
		}
		n.Finally, err = one(t, n.Finally)
	case *Catch:
		if n.Types, err = list(t, n.Types); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *Finally:
		n.Body, err = list(t, n.Body)
	case *Throw:
		n.X, err = one(t, n.X)
	case *Break:
		n.Num, err = one(t, n.Num)
	case *Continue:
		n.Num, err = one(t, n.Num)
	case *Return:
		n.X, err = one(t, n.X)
	case *Unset:
		n.Vars, err = list(t, n.Vars)
	case *StaticVarStmt:
		n.Vars, err = list(t, n.Vars)
	case *StaticVar:
		if n.Name, err = one(t, n.Name); err != nil {
			return err
		}
		n.Default, err = one(t, n.Default)
	case *Global:
		n.Vars, err = list(t, n.Vars)
	case *Declare:
		if n.Items, err = list(t, n.Items); err != nil {
			return err
		}
		n.Body, err = list(t, n.Body)
	case *DeclareItem:
		n.Value, err = one(t, n.Value)

	// Expressions
	case *Variable:
		n.Name, err = one(t, n.Name)
	case *ArrayDimFetch:
		if n.X, err = one(t, n.X); err != nil {
			return err
		}
		n.Dim, err = one(t, n.Dim)
	case *PropertyFetch:
		if n.X, err = one(t, n.X); err != nil {
			return err
		}
		n.Prop, err = one(t, n.Prop)
	case *StaticPropertyFetch:
		if n.Class, err = one(t, n.Class); err != nil {
			return err
		}
		n.Prop, err = one(t, n.Prop)
	case *ConstFetch:
		n.Name, err = one(t, n.Name)
	case *ClassConstFetch:
		n.Class, err = one(t, n.Class)
	case *FuncCall:
		if n.Fun, err = one(t, n.Fun); err != nil {
			return err
		}
		n.Args, err = list(t, n.Args)
	case *MethodCall:
		if n.X, err = one(t, n.X); err != nil {
			return err
		}
		if n.Method, err = one(t, n.Method); err != nil {
			return err
		}
		n.Args, err = list(t, n.Args)
	case *StaticCall:
		if n.Class, err = one(t, n.Class); err != nil {
			return err
		}
		if n.Method, err = one(t, n.Method); err != nil {
			return err
		}
		n.Args, err = list(t, n.Args)
	case *New:
		if n.Class, err = one(t, n.Class); err != nil {
			return err
		}
		n.Args, err = list(t, n.Args)
	case *Arg:
		n.Value, err = one(t, n.Value)
	case *Yield:
		if n.Key, err = one(t, n.Key); err != nil {
			return err
		}
		n.Value, err = one(t, n.Value)
	case *ErrorSuppress:
		n.X, err = one(t, n.X)
	case *Assign:
		if n.Var, err = one(t, n.Var); err != nil {
			return err
		}
		n.X, err = one(t, n.X)
	case *AssignOp:
		if n.Var, err = one(t, n.Var); err != nil {
			return err
		}
		n.X, err = one(t, n.X)
	case *AssignRef:
		if n.Var, err = one(t, n.Var); err != nil {
			return err
		}
		n.X, err = one(t, n.X)
	case *BinaryOp:
		if n.X, err = one(t, n.X); err != nil {
			return err
		}
		n.Y, err = one(t, n.Y)
	case *Unary:
		n.X, err = one(t, n.X)
	case *IncDec:
		n.X, err = one(t, n.X)
	case *Ternary:
		if n.Cond, err = one(t, n.Cond); err != nil {
			return err
		}
		if n.Then, err = one(t, n.Then); err != nil {
			return err
		}
		n.Else, err = one(t, n.Else)
	case *Cast:
		n.X, err = one(t, n.X)
	case *InstanceOf:
		if n.X, err = one(t, n.X); err != nil {
			return err
		}
		n.Class, err = one(t, n.Class)
	case *Isset:
		n.Vars, err = list(t, n.Vars)
	case *Empty:
		n.X, err = one(t, n.X)
	case *List:
		n.Items, err = list(t, n.Items)
	case *Print:
		n.X, err = one(t, n.X)
	case *Clone:
		n.X, err = one(t, n.X)
	case *Eval:
		n.X, err = one(t, n.X)
	case *Exit:
		n.X, err = one(t, n.X)
	case *Include:
		n.X, err = one(t, n.X)
	case *ShellExec:
		n.Parts, err = list(t, n.Parts)

	// Literals
	case *Array:
		n.Items, err = list(t, n.Items)
	case *ArrayItem:
		if n.Key, err = one(t, n.Key); err != nil {
			return err
		}
		n.Value, err = one(t, n.Value)
	case *Interpolated:
		n.Parts, err = list(t, n.Parts)

	case *InlineHTML, *ClosureUse, *Goto, *Label, *HaltCompiler, *MagicConst,
		*String, *Int, *Float, *Name, *Ident:
		// No children
	}
	return err
}
