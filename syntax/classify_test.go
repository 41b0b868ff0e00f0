package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepnoodle-ai/sandbox/ast"
)

func TestOperatorOf(t *testing.T) {
	tests := []struct {
		node ast.Node
		want string
	}{
		{&ast.Assign{}, "="},
		{&ast.AssignOp{Op: ".="}, ".="},
		{&ast.AssignRef{}, "=&"},
		{&ast.BinaryOp{Op: "==="}, "==="},
		{&ast.BinaryOp{Op: "xor"}, "xor"},
		{&ast.Unary{Op: "!"}, "!"},
		{&ast.Unary{Op: "~"}, "~"},
		{&ast.Unary{Op: "-"}, "-n"},
		{&ast.Unary{Op: "+"}, "+n"},
		{&ast.IncDec{Op: "++", Prefix: true}, "++n"},
		{&ast.IncDec{Op: "--", Prefix: true}, "--n"},
		{&ast.IncDec{Op: "++"}, "n++"},
		{&ast.IncDec{Op: "--"}, "n--"},
		{&ast.Ternary{}, "?"},
	}
	for _, tt := range tests {
		got, ok := operatorOf(tt.node)
		assert.True(t, ok, tt.want)
		assert.Equal(t, tt.want, got)
	}
	_, ok := operatorOf(&ast.Echo{})
	assert.False(t, ok)
}

func TestPrimitiveOf(t *testing.T) {
	tests := []struct {
		node ast.Node
		want string
	}{
		{&ast.Cast{Type: ast.CastArray}, "array"},
		{&ast.Cast{Type: ast.CastBool}, "bool"},
		{&ast.Cast{Type: ast.CastFloat}, "float"},
		{&ast.Cast{Type: ast.CastInt}, "int"},
		{&ast.Cast{Type: ast.CastObject}, "object"},
		{&ast.Cast{Type: ast.CastString}, "string"},
		{&ast.Array{}, "array"},
		{&ast.String{}, "string"},
		{&ast.Interpolated{}, "string"},
		{&ast.Float{}, "float"},
		{&ast.Int{}, "int"},
	}
	for _, tt := range tests {
		got, ok := primitiveOf(tt.node)
		assert.True(t, ok, tt.want)
		assert.Equal(t, tt.want, got)
	}
	_, ok := primitiveOf(&ast.Cast{Type: ast.CastUnset})
	assert.False(t, ok)
}

func TestKeywordOf(t *testing.T) {
	tests := map[string][]ast.Node{
		"if":         {&ast.If{}, &ast.ElseIf{}, &ast.Else{}},
		"while":      {&ast.While{}, &ast.Do{}},
		"for":        {&ast.For{}, &ast.Foreach{}},
		"switch":     {&ast.Switch{}, &ast.Case{}},
		"try":        {&ast.Try{}, &ast.Catch{}, &ast.Finally{}},
		"declare":    {&ast.Declare{}, &ast.DeclareItem{}},
		"goto":       {&ast.Goto{}, &ast.Label{}},
		"echo":       {&ast.Echo{}, &ast.Print{}},
		"static":     {&ast.StaticVarStmt{}},
		"include":    {&ast.Include{Type: ast.IncludeRequireOnce}},
		"instanceof": {&ast.InstanceOf{}},
	}
	for want, nodes := range tests {
		for _, node := range nodes {
			got, ok := keywordOf(node)
			assert.True(t, ok, node.Kind().String())
			assert.Equal(t, want, got, node.Kind().String())
		}
	}
	_, ok := keywordOf(&ast.Continue{})
	assert.False(t, ok)
}

func TestIsLiteralConst(t *testing.T) {
	assert.True(t, isLiteralConst("TRUE"))
	assert.True(t, isLiteralConst("null"))
	assert.False(t, isLiteralConst("PHP_EOL"))
}
