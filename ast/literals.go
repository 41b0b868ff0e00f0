package ast

import (
	"strconv"
	"strings"
)

// Array is an array literal.
type Array struct {
	Span
	Items []*ArrayItem
}

func (x *Array) exprNode() {}
func (x *Array) Kind() Kind     { return KindArray }
func (x *Array) String() string { return "[" + join(x.Items, ", ") + "]" }

// ArrayItem is one element of an array literal.
type ArrayItem struct {
	Span
	Key    Expr // nil for positional items
	Value  Expr
	ByRef  bool
	Unpack bool
}

func (x *ArrayItem) Kind() Kind { return KindArrayItem }

func (x *ArrayItem) String() string {
	s := ref(x.ByRef) + str(x.Value)
	if x.Unpack {
		s = "..." + s
	}
	if x.Key != nil {
		s = x.Key.String() + " => " + s
	}
	return s
}

// String is a string literal without interpolation.
type String struct {
	Span
	Value string
}

func (x *String) exprNode() {}
func (x *String) Kind() Kind     { return KindString }
func (x *String) String() string { return "'" + strings.ReplaceAll(x.Value, "'", `\'`) + "'" }

// Interpolated is a double-quoted string with embedded expressions. Parts
// holds literal segments as *String and embedded expressions in order.
type Interpolated struct {
	Span
	Parts []Expr
}

func (x *Interpolated) exprNode() {}
func (x *Interpolated) Kind() Kind { return KindInterpolated }

func (x *Interpolated) String() string {
	var out strings.Builder
	out.WriteString(`"`)
	for _, p := range x.Parts {
		if s, ok := p.(*String); ok {
			out.WriteString(s.Value)
		} else {
			out.WriteString("{" + str(p) + "}")
		}
	}
	out.WriteString(`"`)
	return out.String()
}

// Int is an integer literal.
type Int struct {
	Span
	Value int64
}

func (x *Int) exprNode() {}
func (x *Int) Kind() Kind     { return KindInt }
func (x *Int) String() string { return strconv.FormatInt(x.Value, 10) }

// Float is a floating point literal.
type Float struct {
	Span
	Value float64
}

func (x *Float) exprNode() {}
func (x *Float) Kind() Kind     { return KindFloat }
func (x *Float) String() string { return strconv.FormatFloat(x.Value, 'g', -1, 64) }

// Name is a literal, possibly namespace-qualified, name of a function,
// class, constant or namespace.
type Name struct {
	Span
	Parts          []string // path segments, e.g. ["Foo", "Bar"] for Foo\Bar
	FullyQualified bool     // written with a leading backslash
}

// NewName builds a Name from a backslash-separated path. A leading
// backslash marks the name fully qualified.
func NewName(path string) *Name {
	fq := strings.HasPrefix(path, `\`)
	path = strings.TrimPrefix(path, `\`)
	var parts []string
	if path != "" {
		parts = strings.Split(path, `\`)
	}
	return &Name{Parts: parts, FullyQualified: fq}
}

func (x *Name) exprNode() {}
func (x *Name) Kind() Kind { return KindName }

// Path returns the name without a leading backslash, e.g. "Foo\Bar".
func (x *Name) Path() string { return strings.Join(x.Parts, `\`) }

func (x *Name) String() string {
	if x.FullyQualified {
		return `\` + x.Path()
	}
	return x.Path()
}

// Ident is a literal identifier, used for variable and member names.
type Ident struct {
	Span
	Name string
}

func (x *Ident) exprNode() {}
func (x *Ident) Kind() Kind     { return KindIdent }
func (x *Ident) String() string { return x.Name }

// NameOf returns the literal name held by a name slot: the path of a *Name
// or the name of an *Ident. It reports false for dynamic names.
func NameOf(e Expr) (string, bool) {
	switch n := e.(type) {
	case *Name:
		if n != nil {
			return n.Path(), true
		}
	case *Ident:
		if n != nil {
			return n.Name, true
		}
	}
	return "", false
}
