// Package errors defines the violations raised when sandboxed code breaks
// the sandbox policy.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/internal/token"
)

// Violation is a policy violation found while processing a syntax tree.
// Raising a Violation aborts the pass that found it.
type Violation struct {
	Code    Code     // kind of violation
	Message string   // description of the violation
	Node    ast.Node // the offending node
	Context string   // offending name, if any
}

// New creates a Violation.
func New(code Code, message string, node ast.Node, context string) *Violation {
	return &Violation{Code: code, Message: message, Node: node, Context: context}
}

// Position returns the source position of the offending node.
func (v *Violation) Position() token.Position {
	if v.Node == nil {
		return token.NoPos
	}
	return v.Node.Pos()
}

// Error implements the error interface.
func (v *Violation) Error() string {
	var b strings.Builder
	b.WriteString(v.Message)
	if v.Context != "" {
		fmt.Fprintf(&b, " (%s)", v.Context)
	}
	fmt.Fprintf(&b, " [%s]", v.Code)
	if pos := v.Position(); pos.IsValid() {
		if pos.File != "" {
			fmt.Fprintf(&b, " at %s:%d:%d", pos.File, pos.LineNumber(), pos.ColumnNumber())
		} else {
			fmt.Fprintf(&b, " at line %d, column %d", pos.LineNumber(), pos.ColumnNumber())
		}
	}
	return b.String()
}

// Is reports whether target is a Violation with the same code. This allows
// errors.Is(err, &Violation{Code: SandboxAccess}) checks.
func (v *Violation) Is(target error) bool {
	t, ok := target.(*Violation)
	if !ok {
		return false
	}
	return t.Code == v.Code
}

// AsViolation returns the first Violation in err's chain.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if stderrors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// CodeOf returns the code of the first Violation in err's chain, or the
// empty code if there is none.
func CodeOf(err error) Code {
	if v, ok := AsViolation(err); ok {
		return v.Code
	}
	return ""
}
