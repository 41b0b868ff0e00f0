// Package ast defines the syntax tree that sandboxed source code is parsed
// into before policy enforcement.
//
// The set of node kinds is closed: every concrete node type reports one of
// the Kind values enumerated by Kinds, and the traversal and policy code
// switch over that set exhaustively.
package ast

import (
	"strings"

	"github.com/deepnoodle-ai/sandbox/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string

	// Kind returns the syntactic category of the node.
	Kind() Kind
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Span records the source extent of a node. It is embedded in every node
// type and is only used for error reporting.
type Span struct {
	From token.Position // start of the node
	To   token.Position // end of the node
}

func (s Span) Pos() token.Position { return s.From }
func (s Span) End() token.Position { return s.To }

// SpanOf returns the span covered by n. Rewritten nodes carry the span of
// the node they replace.
func SpanOf(n Node) Span {
	if n == nil {
		return Span{}
	}
	return Span{From: n.Pos(), To: n.End()}
}

// Program is the root node of a compilation unit.
type Program struct {
	Stmts []Stmt // top-level statements
}

func (p *Program) Kind() Kind { return KindProgram }

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.NoPos
}

func (p *Program) End() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[len(p.Stmts)-1].End()
	}
	return token.NoPos
}

func (p *Program) String() string {
	parts := make([]string, 0, len(p.Stmts))
	for _, s := range p.Stmts {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}
