package ast

import "strings"

// InlineHTML is raw text outside of code tags that is written straight
// to the output.
type InlineHTML struct {
	Span
	Value string
}

func (x *InlineHTML) stmtNode() {}
func (x *InlineHTML) Kind() Kind     { return KindInlineHTML }
func (x *InlineHTML) String() string { return "?>" + x.Value + "<?php" }

// Echo writes one or more values to the output.
type Echo struct {
	Span
	Exprs []Expr
}

func (x *Echo) stmtNode() {}
func (x *Echo) Kind() Kind     { return KindEcho }
func (x *Echo) String() string { return "echo " + join(x.Exprs, ", ") + ";" }

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Span
	X Expr
}

func (x *ExprStmt) stmtNode() {}
func (x *ExprStmt) Kind() Kind     { return KindExprStmt }
func (x *ExprStmt) String() string { return str(x.X) + ";" }

// If is a conditional statement with optional elseif and else branches.
type If struct {
	Span
	Cond    Expr
	Body    []Stmt
	ElseIfs []*ElseIf
	Else    *Else // nil if there is no else branch
}

func (x *If) stmtNode() {}
func (x *If) Kind() Kind { return KindIf }

func (x *If) String() string {
	var out strings.Builder
	out.WriteString("if (" + str(x.Cond) + ") " + block(x.Body))
	for _, e := range x.ElseIfs {
		out.WriteString(" " + e.String())
	}
	if x.Else != nil {
		out.WriteString(" " + x.Else.String())
	}
	return out.String()
}

// ElseIf is a chained branch of an If statement.
type ElseIf struct {
	Span
	Cond Expr
	Body []Stmt
}

func (x *ElseIf) Kind() Kind     { return KindElseIf }
func (x *ElseIf) String() string { return "elseif (" + str(x.Cond) + ") " + block(x.Body) }

// Else is the final branch of an If statement.
type Else struct {
	Span
	Body []Stmt
}

func (x *Else) Kind() Kind     { return KindElse }
func (x *Else) String() string { return "else " + block(x.Body) }

// While is a pre-tested loop.
type While struct {
	Span
	Cond Expr
	Body []Stmt
}

func (x *While) stmtNode() {}
func (x *While) Kind() Kind     { return KindWhile }
func (x *While) String() string { return "while (" + str(x.Cond) + ") " + block(x.Body) }

// Do is a post-tested loop.
type Do struct {
	Span
	Cond Expr
	Body []Stmt
}

func (x *Do) stmtNode() {}
func (x *Do) Kind() Kind     { return KindDo }
func (x *Do) String() string { return "do " + block(x.Body) + " while (" + str(x.Cond) + ");" }

// For is a three-clause loop.
type For struct {
	Span
	Init []Expr
	Cond []Expr
	Loop []Expr
	Body []Stmt
}

func (x *For) stmtNode() {}
func (x *For) Kind() Kind { return KindFor }

func (x *For) String() string {
	return "for (" + join(x.Init, ", ") + "; " + join(x.Cond, ", ") + "; " +
		join(x.Loop, ", ") + ") " + block(x.Body)
}

// Foreach iterates over an array or traversable value.
type Foreach struct {
	Span
	X     Expr // iterated expression
	Key   Expr // key target; nil if omitted
	Value Expr // value target
	ByRef bool // value bound by reference
	Body  []Stmt
}

func (x *Foreach) stmtNode() {}
func (x *Foreach) Kind() Kind { return KindForeach }

func (x *Foreach) String() string {
	target := ref(x.ByRef) + str(x.Value)
	if x.Key != nil {
		target = x.Key.String() + " => " + target
	}
	return "foreach (" + str(x.X) + " as " + target + ") " + block(x.Body)
}

// Switch selects among Case branches.
type Switch struct {
	Span
	Cond  Expr
	Cases []*Case
}

func (x *Switch) stmtNode() {}
func (x *Switch) Kind() Kind { return KindSwitch }

func (x *Switch) String() string {
	return "switch (" + str(x.Cond) + ") { " + join(x.Cases, " ") + " }"
}

// Case is one branch of a Switch. A nil Cond marks the default branch.
type Case struct {
	Span
	Cond Expr
	Body []Stmt
}

func (x *Case) Kind() Kind { return KindCase }

func (x *Case) String() string {
	head := "default:"
	if x.Cond != nil {
		head = "case " + x.Cond.String() + ":"
	}
	if len(x.Body) == 0 {
		return head
	}
	return head + " " + join(x.Body, " ")
}

// Try is a try/catch/finally statement.
type Try struct {
	Span
	Body    []Stmt
	Catches []*Catch
	Finally *Finally // nil if there is no finally block
}

func (x *Try) stmtNode() {}
func (x *Try) Kind() Kind { return KindTry }

func (x *Try) String() string {
	var out strings.Builder
	out.WriteString("try " + block(x.Body))
	for _, c := range x.Catches {
		out.WriteString(" " + c.String())
	}
	if x.Finally != nil {
		out.WriteString(" " + x.Finally.String())
	}
	return out.String()
}

// Catch is an exception handler of a Try statement.
type Catch struct {
	Span
	Types []*Name // caught exception types
	Var   string  // bound variable name without the "$" sigil
	Body  []Stmt
}

func (x *Catch) Kind() Kind { return KindCatch }

func (x *Catch) String() string {
	return "catch (" + join(x.Types, " | ") + " $" + x.Var + ") " + block(x.Body)
}

// Finally is the finally block of a Try statement.
type Finally struct {
	Span
	Body []Stmt
}

func (x *Finally) Kind() Kind     { return KindFinally }
func (x *Finally) String() string { return "finally " + block(x.Body) }

// Throw raises an exception.
type Throw struct {
	Span
	X Expr
}

func (x *Throw) stmtNode() {}
func (x *Throw) Kind() Kind     { return KindThrow }
func (x *Throw) String() string { return "throw " + str(x.X) + ";" }

// Break exits one or more enclosing loops or switches.
type Break struct {
	Span
	Num Expr // number of levels; nil for one
}

func (x *Break) stmtNode() {}
func (x *Break) Kind() Kind { return KindBreak }

func (x *Break) String() string {
	if x.Num != nil {
		return "break " + x.Num.String() + ";"
	}
	return "break;"
}

// Continue skips to the next iteration of one or more enclosing loops.
type Continue struct {
	Span
	Num Expr // number of levels; nil for one
}

func (x *Continue) stmtNode() {}
func (x *Continue) Kind() Kind { return KindContinue }

func (x *Continue) String() string {
	if x.Num != nil {
		return "continue " + x.Num.String() + ";"
	}
	return "continue;"
}

// Return exits the current function.
type Return struct {
	Span
	X Expr // returned value; nil for a bare return
}

func (x *Return) stmtNode() {}
func (x *Return) Kind() Kind { return KindReturn }

func (x *Return) String() string {
	if x.X != nil {
		return "return " + x.X.String() + ";"
	}
	return "return;"
}

// Unset destroys the given variables.
type Unset struct {
	Span
	Vars []Expr
}

func (x *Unset) stmtNode() {}
func (x *Unset) Kind() Kind     { return KindUnset }
func (x *Unset) String() string { return "unset(" + join(x.Vars, ", ") + ");" }

// StaticVarStmt is a "static" statement declaring function-static variables.
type StaticVarStmt struct {
	Span
	Vars []*StaticVar
}

func (x *StaticVarStmt) stmtNode() {}
func (x *StaticVarStmt) Kind() Kind     { return KindStaticVarStmt }
func (x *StaticVarStmt) String() string { return "static " + join(x.Vars, ", ") + ";" }

// StaticVar is one variable of a StaticVarStmt. Name is an *Ident for a
// literal name; any other expression is a dynamic name.
type StaticVar struct {
	Span
	Name    Expr
	Default Expr // initial value; nil if none
}

func (x *StaticVar) Kind() Kind { return KindStaticVar }

func (x *StaticVar) String() string {
	s := varName(x.Name)
	if x.Default != nil {
		s += " = " + x.Default.String()
	}
	return s
}

// Global imports global variables into the local scope.
type Global struct {
	Span
	Vars []Expr
}

func (x *Global) stmtNode() {}
func (x *Global) Kind() Kind     { return KindGlobal }
func (x *Global) String() string { return "global " + join(x.Vars, ", ") + ";" }

// Declare sets execution directives for a block or the rest of the file.
type Declare struct {
	Span
	Items []*DeclareItem
	Body  []Stmt // nil for the statement form
}

func (x *Declare) stmtNode() {}
func (x *Declare) Kind() Kind { return KindDeclare }

func (x *Declare) String() string {
	s := "declare(" + join(x.Items, ", ") + ")"
	if x.Body == nil {
		return s + ";"
	}
	return s + " " + block(x.Body)
}

// DeclareItem is a single directive of a Declare statement.
type DeclareItem struct {
	Span
	Key   string
	Value Expr
}

func (x *DeclareItem) Kind() Kind     { return KindDeclareItem }
func (x *DeclareItem) String() string { return x.Key + "=" + str(x.Value) }

// Goto jumps to a label.
type Goto struct {
	Span
	Label string
}

func (x *Goto) stmtNode() {}
func (x *Goto) Kind() Kind     { return KindGoto }
func (x *Goto) String() string { return "goto " + x.Label + ";" }

// Label marks a goto target.
type Label struct {
	Span
	Name string
}

func (x *Label) stmtNode() {}
func (x *Label) Kind() Kind     { return KindLabel }
func (x *Label) String() string { return x.Name + ":" }

// HaltCompiler stops compilation; Remaining holds the unparsed tail.
type HaltCompiler struct {
	Span
	Remaining string
}

func (x *HaltCompiler) stmtNode() {}
func (x *HaltCompiler) Kind() Kind { return KindHaltCompiler }

func (x *HaltCompiler) String() string {
	return "__halt_compiler();" + x.Remaining
}
