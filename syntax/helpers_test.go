package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/errors"
	"github.com/deepnoodle-ai/sandbox/policy"
)

const testHandle = "__sb"

func allFlags() policy.Flags {
	return policy.Flags(0).With(policy.AllFlags()...)
}

func newStore(flags policy.Flags, opts ...policy.Option) *policy.Store {
	opts = append([]policy.Option{policy.WithHandle(testHandle), policy.WithFlags(flags)}, opts...)
	return policy.NewStore(opts...)
}

func prog(stmts ...ast.Stmt) *ast.Program {
	return &ast.Program{Stmts: stmts}
}

func stmt(x ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{X: x}
}

func varRef(name string) *ast.Variable {
	return &ast.Variable{Name: &ast.Ident{Name: name}}
}

func qname(path string) *ast.Name {
	return ast.NewName(path)
}

func lit(value string) *ast.String {
	return &ast.String{Value: value}
}

func num(value int64) *ast.Int {
	return &ast.Int{Value: value}
}

func call(fn string, args ...ast.Expr) *ast.FuncCall {
	return &ast.FuncCall{Fun: qname(fn), Args: argList(args...)}
}

func argList(values ...ast.Expr) []*ast.Arg {
	var out []*ast.Arg
	for _, value := range values {
		out = append(out, &ast.Arg{Value: value})
	}
	return out
}

func echo(exprs ...ast.Expr) *ast.Echo {
	return &ast.Echo{Exprs: exprs}
}

func validate(t *testing.T, store *policy.Store, p *ast.Program) (*ast.Program, error) {
	t.Helper()
	return NewValidator(store).Transform(p)
}

func requireCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	require.Error(t, err)
	violation, ok := errors.AsViolation(err)
	require.True(t, ok, "expected a violation, got %v", err)
	require.Equal(t, code, violation.Code, violation.Error())
}

func violationOf(t *testing.T, err error) *errors.Violation {
	t.Helper()
	violation, ok := errors.AsViolation(err)
	require.True(t, ok, "expected a violation, got %v", err)
	return violation
}
