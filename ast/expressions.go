package ast

import "strings"

// varName renders a variable name slot: "$name" for a literal identifier,
// "${expr}" for a dynamic name.
func varName(name Expr) string {
	if id, ok := name.(*Ident); ok {
		return "$" + id.Name
	}
	return "${" + str(name) + "}"
}

// memberName renders a member name slot of a property or method access.
func memberName(name Expr) string {
	if id, ok := name.(*Ident); ok {
		return id.Name
	}
	return "{" + str(name) + "}"
}

// Variable is a variable reference. Name is an *Ident for a literal name;
// any other expression is a dynamic ("variable variable") name.
type Variable struct {
	Span
	Name Expr
}

func (x *Variable) exprNode() {}
func (x *Variable) Kind() Kind     { return KindVariable }
func (x *Variable) String() string { return varName(x.Name) }

// ArrayDimFetch reads an array element.
type ArrayDimFetch struct {
	Span
	X   Expr
	Dim Expr // nil for the append form "$a[]"
}

func (x *ArrayDimFetch) exprNode() {}
func (x *ArrayDimFetch) Kind() Kind     { return KindArrayDimFetch }
func (x *ArrayDimFetch) String() string { return str(x.X) + "[" + str(x.Dim) + "]" }

// PropertyFetch reads an object property.
type PropertyFetch struct {
	Span
	X    Expr
	Prop Expr // *Ident for a literal property name
}

func (x *PropertyFetch) exprNode() {}
func (x *PropertyFetch) Kind() Kind     { return KindPropertyFetch }
func (x *PropertyFetch) String() string { return str(x.X) + "->" + memberName(x.Prop) }

// StaticPropertyFetch reads a static class property.
type StaticPropertyFetch struct {
	Span
	Class Expr // *Name for a literal class name
	Prop  Expr // *Ident for a literal property name
}

func (x *StaticPropertyFetch) exprNode() {}
func (x *StaticPropertyFetch) Kind() Kind { return KindStaticPropertyFetch }

func (x *StaticPropertyFetch) String() string {
	return str(x.Class) + "::" + varName(x.Prop)
}

// ConstFetch reads a global constant. Name is a *Name for a literal name.
type ConstFetch struct {
	Span
	Name Expr
}

func (x *ConstFetch) exprNode() {}
func (x *ConstFetch) Kind() Kind     { return KindConstFetch }
func (x *ConstFetch) String() string { return str(x.Name) }

// ClassConstFetch reads a class constant.
type ClassConstFetch struct {
	Span
	Class Expr   // *Name for a literal class name
	Name  string // constant name
}

func (x *ClassConstFetch) exprNode() {}
func (x *ClassConstFetch) Kind() Kind     { return KindClassConstFetch }
func (x *ClassConstFetch) String() string { return str(x.Class) + "::" + x.Name }

// FuncCall calls a function. Fun is a *Name for a literal function name;
// any other expression computes the callee at runtime.
type FuncCall struct {
	Span
	Fun  Expr
	Args []*Arg
}

func (x *FuncCall) exprNode() {}
func (x *FuncCall) Kind() Kind     { return KindFuncCall }
func (x *FuncCall) String() string { return str(x.Fun) + args(x.Args) }

// MethodCall calls a method on an object.
type MethodCall struct {
	Span
	X      Expr
	Method Expr // *Ident for a literal method name
	Args   []*Arg
}

func (x *MethodCall) exprNode() {}
func (x *MethodCall) Kind() Kind { return KindMethodCall }

func (x *MethodCall) String() string {
	return str(x.X) + "->" + memberName(x.Method) + args(x.Args)
}

// StaticCall calls a static method.
type StaticCall struct {
	Span
	Class  Expr // *Name for a literal class name
	Method Expr // *Ident for a literal method name
	Args   []*Arg
}

func (x *StaticCall) exprNode() {}
func (x *StaticCall) Kind() Kind { return KindStaticCall }

func (x *StaticCall) String() string {
	return str(x.Class) + "::" + memberName(x.Method) + args(x.Args)
}

// New instantiates an object.
type New struct {
	Span
	Class Expr // *Name for a literal class name
	Args  []*Arg
}

func (x *New) exprNode() {}
func (x *New) Kind() Kind     { return KindNew }
func (x *New) String() string { return "new " + str(x.Class) + args(x.Args) }

// Arg is a single call argument.
type Arg struct {
	Span
	Value  Expr
	ByRef  bool // passed by reference
	Unpack bool // spread with "..."
}

func (x *Arg) Kind() Kind { return KindArg }

func (x *Arg) String() string {
	s := ref(x.ByRef) + str(x.Value)
	if x.Unpack {
		return "..." + s
	}
	return s
}

// Yield produces a value from a generator.
type Yield struct {
	Span
	Key   Expr // nil if no key is given
	Value Expr // nil for a bare yield
}

func (x *Yield) exprNode() {}
func (x *Yield) Kind() Kind { return KindYield }

func (x *Yield) String() string {
	switch {
	case x.Key != nil:
		return "yield " + x.Key.String() + " => " + str(x.Value)
	case x.Value != nil:
		return "yield " + x.Value.String()
	default:
		return "yield"
	}
}

// ErrorSuppress evaluates X with error reporting silenced ("@").
type ErrorSuppress struct {
	Span
	X Expr
}

func (x *ErrorSuppress) exprNode() {}
func (x *ErrorSuppress) Kind() Kind     { return KindErrorSuppress }
func (x *ErrorSuppress) String() string { return "@" + str(x.X) }

// Assign is a plain assignment.
type Assign struct {
	Span
	Var Expr
	X   Expr
}

func (x *Assign) exprNode() {}
func (x *Assign) Kind() Kind     { return KindAssign }
func (x *Assign) String() string { return str(x.Var) + " = " + str(x.X) }

// AssignOp is a compound assignment such as "+=" or ".=".
type AssignOp struct {
	Span
	Op  string // operator including "=", e.g. "+="
	Var Expr
	X   Expr
}

func (x *AssignOp) exprNode() {}
func (x *AssignOp) Kind() Kind     { return KindAssignOp }
func (x *AssignOp) String() string { return str(x.Var) + " " + x.Op + " " + str(x.X) }

// AssignRef binds Var to X by reference.
type AssignRef struct {
	Span
	Var Expr
	X   Expr
}

func (x *AssignRef) exprNode() {}
func (x *AssignRef) Kind() Kind     { return KindAssignRef }
func (x *AssignRef) String() string { return str(x.Var) + " =& " + str(x.X) }

// BinaryOp is an infix operator expression. Op is the operator as written,
// with word operators ("and", "or", "xor") in lower case.
type BinaryOp struct {
	Span
	Op string
	X  Expr
	Y  Expr
}

func (x *BinaryOp) exprNode() {}
func (x *BinaryOp) Kind() Kind { return KindBinaryOp }

func (x *BinaryOp) String() string {
	return "(" + str(x.X) + " " + x.Op + " " + str(x.Y) + ")"
}

// Unary is a prefix operator expression: "!", "~", "-" or "+".
type Unary struct {
	Span
	Op string
	X  Expr
}

func (x *Unary) exprNode() {}
func (x *Unary) Kind() Kind     { return KindUnary }
func (x *Unary) String() string { return "(" + x.Op + str(x.X) + ")" }

// IncDec is an increment or decrement, in prefix or postfix position.
type IncDec struct {
	Span
	Op     string // "++" or "--"
	Prefix bool
	X      Expr
}

func (x *IncDec) exprNode() {}
func (x *IncDec) Kind() Kind { return KindIncDec }

func (x *IncDec) String() string {
	if x.Prefix {
		return x.Op + str(x.X)
	}
	return str(x.X) + x.Op
}

// Ternary is a conditional expression. Then is nil for the short "?:" form.
type Ternary struct {
	Span
	Cond Expr
	Then Expr
	Else Expr
}

func (x *Ternary) exprNode() {}
func (x *Ternary) Kind() Kind { return KindTernary }

func (x *Ternary) String() string {
	if x.Then == nil {
		return "(" + str(x.Cond) + " ?: " + str(x.Else) + ")"
	}
	return "(" + str(x.Cond) + " ? " + x.Then.String() + " : " + str(x.Else) + ")"
}

// CastType names the target type of a Cast.
type CastType string

const (
	CastArray  CastType = "array"
	CastBool   CastType = "bool"
	CastFloat  CastType = "float"
	CastInt    CastType = "int"
	CastObject CastType = "object"
	CastString CastType = "string"
	CastUnset  CastType = "unset"
)

// Cast converts X to another type.
type Cast struct {
	Span
	Type CastType
	X    Expr
}

func (x *Cast) exprNode() {}
func (x *Cast) Kind() Kind     { return KindCast }
func (x *Cast) String() string { return "(" + string(x.Type) + ")" + str(x.X) }

// InstanceOf tests whether X is an instance of Class.
type InstanceOf struct {
	Span
	X     Expr
	Class Expr
}

func (x *InstanceOf) exprNode() {}
func (x *InstanceOf) Kind() Kind     { return KindInstanceOf }
func (x *InstanceOf) String() string { return str(x.X) + " instanceof " + str(x.Class) }

// Isset tests whether all of Vars are set and not null.
type Isset struct {
	Span
	Vars []Expr
}

func (x *Isset) exprNode() {}
func (x *Isset) Kind() Kind     { return KindIsset }
func (x *Isset) String() string { return "isset(" + join(x.Vars, ", ") + ")" }

// Empty tests whether X is empty.
type Empty struct {
	Span
	X Expr
}

func (x *Empty) exprNode() {}
func (x *Empty) Kind() Kind     { return KindEmpty }
func (x *Empty) String() string { return "empty(" + str(x.X) + ")" }

// List is a destructuring assignment target. Nil items are skipped slots.
type List struct {
	Span
	Items []Expr
}

func (x *List) exprNode() {}
func (x *List) Kind() Kind { return KindList }

func (x *List) String() string {
	parts := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		parts = append(parts, str(item))
	}
	return "list(" + strings.Join(parts, ", ") + ")"
}

// Print writes X to the output and evaluates to 1.
type Print struct {
	Span
	X Expr
}

func (x *Print) exprNode() {}
func (x *Print) Kind() Kind     { return KindPrint }
func (x *Print) String() string { return "print " + str(x.X) }

// Clone shallow-copies an object.
type Clone struct {
	Span
	X Expr
}

func (x *Clone) exprNode() {}
func (x *Clone) Kind() Kind     { return KindClone }
func (x *Clone) String() string { return "clone " + str(x.X) }

// Eval evaluates a string as code.
type Eval struct {
	Span
	X Expr
}

func (x *Eval) exprNode() {}
func (x *Eval) Kind() Kind     { return KindEval }
func (x *Eval) String() string { return "eval(" + str(x.X) + ")" }

// Exit terminates the script. X is the optional status or message.
type Exit struct {
	Span
	X Expr
}

func (x *Exit) exprNode() {}
func (x *Exit) Kind() Kind     { return KindExit }
func (x *Exit) String() string { return "exit(" + str(x.X) + ")" }

// IncludeType distinguishes the include family of expressions.
type IncludeType string

const (
	IncludePlain       IncludeType = "include"
	IncludeOnce        IncludeType = "include_once"
	IncludeRequire     IncludeType = "require"
	IncludeRequireOnce IncludeType = "require_once"
)

// Include loads and evaluates another file.
type Include struct {
	Span
	Type IncludeType
	X    Expr
}

func (x *Include) exprNode() {}
func (x *Include) Kind() Kind { return KindInclude }

func (x *Include) String() string {
	t := x.Type
	if t == "" {
		t = IncludePlain
	}
	return string(t) + " " + str(x.X)
}

// ShellExec runs its content as a shell command (backticks). Parts holds
// the literal segments as *String and interpolated expressions in order.
type ShellExec struct {
	Span
	Parts []Expr
}

func (x *ShellExec) exprNode() {}
func (x *ShellExec) Kind() Kind { return KindShellExec }

func (x *ShellExec) String() string {
	var out strings.Builder
	out.WriteString("`")
	for _, p := range x.Parts {
		if s, ok := p.(*String); ok {
			out.WriteString(s.Value)
		} else {
			out.WriteString("{" + str(p) + "}")
		}
	}
	out.WriteString("`")
	return out.String()
}

// MagicConst is a compile-time constant such as __LINE__ or __CLASS__.
// Name holds the canonical upper-case spelling.
type MagicConst struct {
	Span
	Name string
}

func (x *MagicConst) exprNode() {}
func (x *MagicConst) Kind() Kind     { return KindMagicConst }
func (x *MagicConst) String() string { return x.Name }
