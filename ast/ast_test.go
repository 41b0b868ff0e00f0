package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Equal(t, int(kindCount)-1, len(kinds))
	seen := map[string]bool{}
	for _, k := range kinds {
		name := k.String()
		assert.NotEqual(t, "", name)
		assert.NotEqual(t, "Invalid", name, "kind %d has no name", int(k))
		assert.False(t, seen[name], "duplicate kind name %s", name)
		seen[name] = true
	}
	assert.Equal(t, "Invalid", Kind(-1).String())
	assert.Equal(t, "Invalid", kindCount.String())
}

func TestNewName(t *testing.T) {
	n := NewName(`\Foo\Bar`)
	assert.True(t, n.FullyQualified)
	assert.Equal(t, []string{"Foo", "Bar"}, n.Parts)
	assert.Equal(t, `Foo\Bar`, n.Path())
	assert.Equal(t, `\Foo\Bar`, n.String())
	assert.Equal(t, "", NewName("").Path())
}

func TestNameOf(t *testing.T) {
	name, ok := NameOf(NewName("strlen"))
	assert.True(t, ok)
	assert.Equal(t, "strlen", name)

	name, ok = NameOf(&Ident{Name: "x"})
	assert.True(t, ok)
	assert.Equal(t, "x", name)

	_, ok = NameOf(v("f"))
	assert.False(t, ok)

	var nilName *Name
	_, ok = NameOf(nilName)
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	tests := []struct {
		node     Node
		expected string
	}{
		{
			&FuncDecl{
				Name:   "add",
				Params: []*Param{{Name: "a"}, {Name: "b"}},
				Body: []Stmt{&Return{X: &BinaryOp{
					Op: "+", X: v("a"), Y: v("b"),
				}}},
			},
			"function add($a, $b) { return ($a + $b); }",
		},
		{
			&ExprStmt{X: &FuncCall{
				Fun:  NewName("add"),
				Args: []*Arg{{Value: &Int{Value: 1}}, {Value: &Int{Value: 2}}},
			}},
			"add(1, 2);",
		},
		{
			&ExprStmt{X: &MethodCall{
				X:      v("__sandbox"),
				Method: &Ident{Name: "call_func"},
				Args:   []*Arg{{Value: &String{Value: "f"}}},
			}},
			"$__sandbox->call_func('f');",
		},
		{&Variable{Name: v("name")}, "${$name}"},
		{&ShellExec{Parts: []Expr{&String{Value: "ls -la"}}}, "`ls -la`"},
		{&Cast{Type: CastInt, X: v("x")}, "(int)$x"},
		{&Ternary{Cond: v("a"), Else: v("b")}, "($a ?: $b)"},
		{&StaticVarStmt{Vars: []*StaticVar{{Name: &Ident{Name: "n"}, Default: &Int{}}}}, "static $n = 0;"},
		{&Use{Items: []*UseItem{{Name: NewName(`A\B`), Alias: "C"}}}, `use A\B as C;`},
		{&Closure{Uses: []*ClosureUse{{Var: "x", ByRef: true}}}, "function () use (&$x) {}"},
		{&String{Value: "it's"}, `'it\'s'`},
		{&IncDec{Op: "++", X: v("i")}, "$i++"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.node.String())
	}
}
