package syntax

import (
	"strings"

	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/policy"
)

// Builders for the synthetic nodes the validator substitutes. Every
// synthetic node carries the span of the node it replaces so violations
// and generated code still point at the original source.

func handleVar(span ast.Span, handle string) *ast.Variable {
	return &ast.Variable{Span: span, Name: &ast.Ident{Span: span, Name: handle}}
}

// handleCall builds "$handle->method(args...)".
func handleCall(span ast.Span, handle, method string, args ...ast.Expr) *ast.MethodCall {
	call := &ast.MethodCall{
		Span:   span,
		X:      handleVar(span, handle),
		Method: &ast.Ident{Span: span, Name: method},
	}
	for _, arg := range args {
		call.Args = append(call.Args, &ast.Arg{Span: ast.SpanOf(arg), Value: arg})
	}
	return call
}

func str(span ast.Span, value string) *ast.String {
	return &ast.String{Span: span, Value: value}
}

// dispatchCall routes a call to an overridden function through the
// runtime dispatcher: name(a, b) becomes $h->call_func('name', a, b).
func dispatchCall(n *ast.FuncCall, handle, name string) *ast.MethodCall {
	call := handleCall(n.Span, handle, policy.CallFunc, str(n.Span, name))
	call.Args = append(call.Args, n.Args...)
	return call
}

// interceptCall hands a fresh call to the original function to its runtime
// intercept: get_defined_vars() becomes
// $h->_get_defined_vars(get_defined_vars()).
func interceptCall(n *ast.FuncCall, handle, name string) *ast.MethodCall {
	original := &ast.FuncCall{Span: n.Span, Fun: n.Fun}
	return handleCall(n.Span, handle, policy.InterceptMethod(name), original)
}

// argsCall hands the caller's full argument list to the runtime:
// func_num_args() becomes $h->_func_num_args(func_get_args()), and
// func_get_arg(i) becomes $h->_func_get_arg(func_get_args(), i).
func argsCall(n *ast.FuncCall, handle, name string) *ast.MethodCall {
	all := &ast.FuncCall{Span: n.Span, Fun: &ast.Name{Span: n.Span, Parts: []string{"func_get_args"}}}
	args := []ast.Expr{all}
	if strings.EqualFold(name, "func_get_arg") {
		var index ast.Expr = &ast.Int{Span: n.Span, Value: 0}
		if len(n.Args) > 0 && n.Args[0] != nil {
			index = n.Args[0].Value
		}
		args = append(args, index)
	}
	return handleCall(n.Span, handle, policy.InterceptMethod(name), args...)
}

// guardedCall wraps a call through a computed name so it only runs when
// the runtime approves the name:
// $h->check_func($f) ? $f() : null.
func guardedCall(n *ast.FuncCall, handle string) *ast.Ternary {
	return &ast.Ternary{
		Span: n.Span,
		Cond: handleCall(n.Span, handle, policy.CheckFunc, ast.DeepCopy(n.Fun)),
		Then: n,
		Else: &ast.ConstFetch{Span: n.Span, Name: &ast.Name{Span: n.Span, Parts: []string{"null"}}},
	}
}

// shellContent joins backtick segments into one string argument. Segments
// that interpolate expressions are kept as an interpolated string.
func shellContent(n *ast.ShellExec) ast.Expr {
	var b strings.Builder
	for _, part := range n.Parts {
		s, ok := part.(*ast.String)
		if !ok {
			return &ast.Interpolated{Span: n.Span, Parts: n.Parts}
		}
		b.WriteString(s.Value)
	}
	return str(n.Span, b.String())
}
