package ast

import "strings"

// FuncDecl is a named function declaration statement.
type FuncDecl struct {
	Span
	Name   string   // function name; empty if the parser could not name it
	ByRef  bool     // true if the function returns by reference
	Params []*Param // parameters
	Body   []Stmt   // function body
}

func (x *FuncDecl) stmtNode() {}
func (x *FuncDecl) Kind() Kind { return KindFuncDecl }

func (x *FuncDecl) String() string {
	return "function " + ref(x.ByRef) + x.Name + params(x.Params) + " " + block(x.Body)
}

// Param is a function, method or closure parameter.
type Param struct {
	Span
	Name     string // parameter name without the "$" sigil
	Type     *Name  // declared type; nil if untyped
	Default  Expr   // default value; nil if none
	ByRef    bool   // passed by reference
	Variadic bool   // collects remaining arguments
}

func (x *Param) Kind() Kind { return KindParam }

func (x *Param) String() string {
	var out strings.Builder
	if x.Type != nil {
		out.WriteString(x.Type.String() + " ")
	}
	out.WriteString(ref(x.ByRef))
	if x.Variadic {
		out.WriteString("...")
	}
	out.WriteString("$" + x.Name)
	if x.Default != nil {
		out.WriteString(" = " + x.Default.String())
	}
	return out.String()
}

// Closure is an anonymous function expression.
type Closure struct {
	Span
	Static bool          // declared static
	ByRef  bool          // returns by reference
	Params []*Param      // parameters
	Uses   []*ClosureUse // variables captured from the enclosing scope
	Body   []Stmt        // function body
}

func (x *Closure) exprNode() {}
func (x *Closure) Kind() Kind { return KindClosure }

func (x *Closure) String() string {
	var out strings.Builder
	if x.Static {
		out.WriteString("static ")
	}
	out.WriteString("function " + ref(x.ByRef) + params(x.Params))
	if len(x.Uses) > 0 {
		out.WriteString(" use (" + join(x.Uses, ", ") + ")")
	}
	out.WriteString(" " + block(x.Body))
	return out.String()
}

// ClosureUse is one entry of a closure's capture list.
type ClosureUse struct {
	Span
	Var   string // captured variable name without the "$" sigil
	ByRef bool   // captured by reference
}

func (x *ClosureUse) Kind() Kind     { return KindClosureUse }
func (x *ClosureUse) String() string { return ref(x.ByRef) + "$" + x.Var }

// ClassDecl is a class declaration statement.
type ClassDecl struct {
	Span
	Name       string  // class name
	Abstract   bool    // declared abstract
	Final      bool    // declared final
	Extends    *Name   // parent class; nil if none
	Implements []*Name // implemented interfaces
	Body       []Stmt  // members
}

func (x *ClassDecl) stmtNode() {}
func (x *ClassDecl) Kind() Kind { return KindClassDecl }

func (x *ClassDecl) String() string {
	var out strings.Builder
	if x.Abstract {
		out.WriteString("abstract ")
	}
	if x.Final {
		out.WriteString("final ")
	}
	out.WriteString("class " + x.Name)
	if x.Extends != nil {
		out.WriteString(" extends " + x.Extends.String())
	}
	if len(x.Implements) > 0 {
		out.WriteString(" implements " + join(x.Implements, ", "))
	}
	out.WriteString(" " + block(x.Body))
	return out.String()
}

// InterfaceDecl is an interface declaration statement.
type InterfaceDecl struct {
	Span
	Name    string  // interface name
	Extends []*Name // parent interfaces
	Body    []Stmt  // members
}

func (x *InterfaceDecl) stmtNode() {}
func (x *InterfaceDecl) Kind() Kind { return KindInterfaceDecl }

func (x *InterfaceDecl) String() string {
	s := "interface " + x.Name
	if len(x.Extends) > 0 {
		s += " extends " + join(x.Extends, ", ")
	}
	return s + " " + block(x.Body)
}

// TraitDecl is a trait declaration statement.
type TraitDecl struct {
	Span
	Name string // trait name
	Body []Stmt // members
}

func (x *TraitDecl) stmtNode() {}
func (x *TraitDecl) Kind() Kind     { return KindTraitDecl }
func (x *TraitDecl) String() string { return "trait " + x.Name + " " + block(x.Body) }

// TraitUse imports traits into a class body.
type TraitUse struct {
	Span
	Traits []*Name // used traits
}

func (x *TraitUse) stmtNode() {}
func (x *TraitUse) Kind() Kind     { return KindTraitUse }
func (x *TraitUse) String() string { return "use " + join(x.Traits, ", ") + ";" }

// ClassMethod is a method declared inside a class, interface or trait.
type ClassMethod struct {
	Span
	Name       string   // method name
	Visibility string   // "public", "protected", "private" or empty
	Static     bool     // declared static
	Abstract   bool     // declared abstract; Body is nil
	ByRef      bool     // returns by reference
	Params     []*Param // parameters
	Body       []Stmt   // method body
}

func (x *ClassMethod) stmtNode() {}
func (x *ClassMethod) Kind() Kind { return KindClassMethod }

func (x *ClassMethod) String() string {
	var out strings.Builder
	if x.Abstract {
		out.WriteString("abstract ")
	}
	if x.Visibility != "" {
		out.WriteString(x.Visibility + " ")
	}
	if x.Static {
		out.WriteString("static ")
	}
	out.WriteString("function " + ref(x.ByRef) + x.Name + params(x.Params))
	if x.Abstract {
		out.WriteString(";")
	} else {
		out.WriteString(" " + block(x.Body))
	}
	return out.String()
}

// Property is a property declared inside a class or trait.
type Property struct {
	Span
	Name       string // property name without the "$" sigil
	Visibility string // "public", "protected", "private" or empty
	Static     bool   // declared static
	Default    Expr   // default value; nil if none
}

func (x *Property) stmtNode() {}
func (x *Property) Kind() Kind { return KindProperty }

func (x *Property) String() string {
	var out strings.Builder
	if x.Visibility != "" {
		out.WriteString(x.Visibility + " ")
	} else {
		out.WriteString("var ")
	}
	if x.Static {
		out.WriteString("static ")
	}
	out.WriteString("$" + x.Name)
	if x.Default != nil {
		out.WriteString(" = " + x.Default.String())
	}
	out.WriteString(";")
	return out.String()
}

// ClassConst declares constants inside a class or interface body.
type ClassConst struct {
	Span
	Items []*ConstItem
}

func (x *ClassConst) stmtNode() {}
func (x *ClassConst) Kind() Kind     { return KindClassConst }
func (x *ClassConst) String() string { return "const " + join(x.Items, ", ") + ";" }

// ConstDecl is a "const" statement outside of any class body.
type ConstDecl struct {
	Span
	Items []*ConstItem
}

func (x *ConstDecl) stmtNode() {}
func (x *ConstDecl) Kind() Kind     { return KindConstDecl }
func (x *ConstDecl) String() string { return "const " + join(x.Items, ", ") + ";" }

// ConstItem is a single name = value pair of a constant declaration.
type ConstItem struct {
	Span
	Name  string
	Value Expr
}

func (x *ConstItem) Kind() Kind     { return KindConstItem }
func (x *ConstItem) String() string { return x.Name + " = " + str(x.Value) }

// Namespace is a namespace declaration. Statements that follow a
// "namespace Foo;" statement in the same file are collected into Body.
type Namespace struct {
	Span
	Name *Name  // namespace path; nil for the global namespace
	Body []Stmt // statements inside the namespace
}

func (x *Namespace) stmtNode() {}
func (x *Namespace) Kind() Kind { return KindNamespace }

func (x *Namespace) String() string {
	if x.Name == nil {
		return "namespace " + block(x.Body)
	}
	return "namespace " + x.Name.String() + " " + block(x.Body)
}

// Use is an import statement that aliases one or more names.
type Use struct {
	Span
	Items []*UseItem
}

func (x *Use) stmtNode() {}
func (x *Use) Kind() Kind     { return KindUse }
func (x *Use) String() string { return "use " + join(x.Items, ", ") + ";" }

// UseItem is a single imported name with an optional alias.
type UseItem struct {
	Span
	Name  *Name  // imported name; nil if the parser could not resolve it
	Alias string // alias; empty if none
}

func (x *UseItem) Kind() Kind { return KindUseItem }

func (x *UseItem) String() string {
	if x.Alias != "" {
		return str(x.Name) + " as " + x.Alias
	}
	return str(x.Name)
}
