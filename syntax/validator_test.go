package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/errors"
	"github.com/deepnoodle-ai/sandbox/policy"
)

func TestValidateUserFunction(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowFunctions))
	store.Whitelist(policy.Operators, "+")

	p := prog(
		&ast.FuncDecl{
			Name:   "add",
			Params: []*ast.Param{{Name: "a"}, {Name: "b"}},
			Body: []ast.Stmt{
				&ast.Return{X: &ast.BinaryOp{Op: "+", X: varRef("a"), Y: varRef("b")}},
			},
		},
		stmt(call("add", num(1), num(2))),
	)
	before := p.String()

	v := NewValidator(store)
	out, err := v.Transform(p)
	require.NoError(t, err)
	assert.Equal(t, before, out.String())
	assert.Equal(t, []string{"add"}, v.Declared())
}

func TestValidateBackticksDisabled(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	_, err := validate(t, store, prog(stmt(&ast.ShellExec{Parts: []ast.Expr{lit("ls -la")}})))
	requireCode(t, err, errors.EscapeBacktick)
}

func TestValidateSuperglobalOverwrite(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	p := prog(stmt(&ast.ArrayDimFetch{X: varRef("GLOBALS"), Dim: lit("x")}))

	out, err := validate(t, store, p)
	require.NoError(t, err)
	assert.Equal(t, "$__sb->_get_superglobal('GLOBALS')['x'];", out.String())

	fetch := out.Stmts[0].(*ast.ExprStmt).X.(*ast.ArrayDimFetch)
	get, ok := fetch.X.(*ast.MethodCall)
	require.True(t, ok)
	require.Len(t, get.Args, 1)
	assert.Equal(t, "GLOBALS", get.Args[0].Value.(*ast.String).Value)
}

func TestValidateSuperglobalWithoutOverwrite(t *testing.T) {
	store := newStore(policy.DefaultFlags().Without(policy.OverwriteSuperglobals))
	out, err := validate(t, store, prog(echo(varRef("_GET"))))
	require.NoError(t, err)
	assert.Equal(t, "echo $_GET;", out.String())

	store.Blacklist(policy.Superglobals, "_SERVER")
	_, err = validate(t, store, prog(echo(varRef("_SERVER"))))
	requireCode(t, err, errors.InvalidSuperglobal)
}

func TestValidateNamespaceFlattened(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowNamespaces))
	p := prog(&ast.Namespace{Name: qname("Foo"), Body: []ast.Stmt{echo(num(1))}})

	out, err := validate(t, store, p)
	require.NoError(t, err)
	require.Len(t, out.Stmts, 1)
	assert.Equal(t, "echo 1;", out.String())
	assert.True(t, store.IsDefinedNamespace("Foo"))
}

func TestValidateNamespacePreservesOrder(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowNamespaces))
	p := prog(
		echo(num(0)),
		&ast.Namespace{Name: qname(`App\Http`), Body: []ast.Stmt{echo(num(1)), echo(num(2))}},
		&ast.Namespace{Name: qname("Empty")},
		echo(num(3)),
	)
	out, err := validate(t, store, p)
	require.NoError(t, err)
	assert.Equal(t, "echo 0;\necho 1;\necho 2;\necho 3;", out.String())
	assert.True(t, store.IsDefinedNamespace(`App\Http`))
	assert.True(t, store.IsDefinedNamespace("Empty"))
}

func TestValidateNamespaceErrors(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowNamespaces))
	_, err := validate(t, store, prog(&ast.Namespace{Body: []ast.Stmt{echo(num(1))}}))
	requireCode(t, err, errors.InvalidNamespaceName)

	store.Blacklist(policy.Namespaces, "Evil")
	_, err = validate(t, store, prog(&ast.Namespace{Name: qname("Evil")}))
	requireCode(t, err, errors.InvalidNamespace)
	assert.False(t, store.IsDefinedNamespace("Evil"))
}

func TestValidateUseRemoved(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowAliases))
	p := prog(
		&ast.Use{Items: []*ast.UseItem{
			{Name: qname(`App\Model`), Alias: "M"},
			{Name: qname(`App\View`)},
		}},
		echo(num(1)),
	)
	out, err := validate(t, store, p)
	require.NoError(t, err)
	assert.Equal(t, "echo 1;", out.String())

	alias, ok := store.DefinedAlias(`App\Model`)
	require.True(t, ok)
	assert.Equal(t, "M", alias)
	assert.True(t, store.IsDefinedAlias(`App\View`))
}

func TestValidateUseErrors(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowAliases))
	_, err := validate(t, store, prog(&ast.Use{Items: []*ast.UseItem{{Alias: "M"}}}))
	requireCode(t, err, errors.InvalidAliasName)

	store.Blacklist(policy.Keywords, "as")
	_, err = validate(t, store, prog(&ast.Use{Items: []*ast.UseItem{{Name: qname("A")}}}))
	require.NoError(t, err)
	_, err = validate(t, store, prog(&ast.Use{Items: []*ast.UseItem{{Name: qname("B"), Alias: "X"}}}))
	requireCode(t, err, errors.InvalidKeyword)
	assert.Equal(t, "as", violationOf(t, err).Context)

	store.Blacklist(policy.Aliases, "Evil")
	_, err = validate(t, store, prog(&ast.Use{Items: []*ast.UseItem{{Name: qname("Evil")}}}))
	requireCode(t, err, errors.InvalidAlias)
}

func TestValidateGatedConstructs(t *testing.T) {
	tests := []struct {
		name string
		flag policy.Flag
		code errors.Code
		stmt ast.Stmt
	}{
		{"inline html", policy.AllowEscaping, errors.EscapeOutput, &ast.InlineHTML{Value: "<p>"}},
		{"cast", policy.AllowCasting, errors.DisallowedCast, stmt(&ast.Cast{Type: ast.CastInt, X: lit("1")})},
		{"unset cast", policy.AllowCasting, errors.DisallowedCast, stmt(&ast.Cast{Type: ast.CastUnset, X: varRef("a")})},
		{"function", policy.AllowFunctions, errors.DisallowedFunction, &ast.FuncDecl{Name: "f"}},
		{"closure", policy.AllowClosures, errors.DisallowedClosure, stmt(&ast.Closure{})},
		{"class", policy.AllowClasses, errors.DisallowedClass, &ast.ClassDecl{Name: "C"}},
		{"interface", policy.AllowInterfaces, errors.DisallowedInterface, &ast.InterfaceDecl{Name: "I"}},
		{"trait", policy.AllowTraits, errors.DisallowedTrait, &ast.TraitDecl{Name: "T"}},
		{"yield", policy.AllowGenerators, errors.DisallowedGenerator, stmt(&ast.Yield{Value: num(1)})},
		{"global", policy.AllowGlobals, errors.DisallowedGlobal, &ast.Global{Vars: []ast.Expr{varRef("g")}}},
		{"static", policy.AllowStaticVariables, errors.DisallowedStaticVar, &ast.StaticVarStmt{Vars: []*ast.StaticVar{{Name: &ast.Ident{Name: "s"}}}}},
		{"error suppress", policy.AllowErrorSuppressing, errors.DisallowedErrorSuppress, stmt(&ast.ErrorSuppress{X: call("f")})},
		{"assign ref", policy.AllowReferences, errors.DisallowedReference, stmt(&ast.AssignRef{Var: varRef("a"), X: varRef("b")})},
		{"return ref", policy.AllowReferences, errors.DisallowedReference, &ast.FuncDecl{Name: "f", ByRef: true}},
		{"halt", policy.AllowHalting, errors.DisallowedHalt, &ast.HaltCompiler{}},
		{"namespace", policy.AllowNamespaces, errors.DisallowedNamespace, &ast.Namespace{Name: qname("N")}},
		{"use", policy.AllowAliases, errors.DisallowedAlias, &ast.Use{Items: []*ast.UseItem{{Name: qname("A")}}}},
		{"new", policy.AllowObjects, errors.DisallowedObject, stmt(&ast.New{Class: qname("C")})},
		{"backticks", policy.AllowBackticks, errors.EscapeBacktick, stmt(&ast.ShellExec{Parts: []ast.Expr{lit("ls")}})},
		{"variable", policy.AllowVariables, errors.DisallowedVariable, echo(varRef("a"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Allowed with every flag on.
			_, err := validate(t, newStore(allFlags()), prog(tt.stmt))
			require.NoError(t, err)

			_, err = validate(t, newStore(allFlags().Without(tt.flag)), prog(tt.stmt))
			requireCode(t, err, tt.code)
		})
	}
}

func TestValidateGlobalConst(t *testing.T) {
	p := prog(&ast.ConstDecl{Items: []*ast.ConstItem{{Name: "A", Value: num(1)}}})
	_, err := validate(t, newStore(allFlags()), p)
	requireCode(t, err, errors.GlobalConst)

	// Class constants are fine.
	p = prog(&ast.ClassDecl{Name: "C", Body: []ast.Stmt{
		&ast.ClassConst{Items: []*ast.ConstItem{{Name: "A", Value: num(1)}}},
	}})
	_, err = validate(t, newStore(allFlags()), p)
	require.NoError(t, err)
}

func TestValidateFunctionDeclarations(t *testing.T) {
	flags := policy.DefaultFlags().With(policy.AllowFunctions)

	_, err := validate(t, newStore(flags), prog(&ast.FuncDecl{}))
	requireCode(t, err, errors.UnnamedFunction)

	_, err = validate(t, newStore(flags), prog(&ast.FuncDecl{Name: "f"}, &ast.FuncDecl{Name: "F"}))
	requireCode(t, err, errors.FunctionRedefined)

	store := newStore(flags)
	store.DefineFunc("greet", func() {})
	_, err = validate(t, store, prog(&ast.FuncDecl{Name: "greet"}))
	requireCode(t, err, errors.FunctionRedefined)

	store = newStore(flags)
	store.Blacklist(policy.Keywords, "function")
	_, err = validate(t, store, prog(&ast.FuncDecl{Name: "f"}))
	requireCode(t, err, errors.InvalidKeyword)
}

func TestValidateDeclarationsPerPass(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowFunctions))
	store.Blacklist(policy.Functions, "exec")
	v := NewValidator(store)

	_, err := v.Transform(prog(&ast.FuncDecl{Name: "f"}, stmt(call("exec"))))
	requireCode(t, err, errors.InvalidFunction)

	// Neither a rejected pass nor a successful one leaves f declared.
	for i := 0; i < 2; i++ {
		_, err = v.Transform(prog(&ast.FuncDecl{Name: "f"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"f"}, v.Declared())
	}

	_, err = validate(t, store, prog(&ast.FuncDecl{Name: "f"}))
	require.NoError(t, err)
}

func TestValidateDispatchOverride(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	store.DefineFunc("greet", func(string) string { return "" })

	original := call("greet", lit("a"), varRef("x"))
	out, err := validate(t, store, prog(stmt(original)))
	require.NoError(t, err)
	assert.Equal(t, "$__sb->call_func('greet', 'a', $x);", out.String())

	dispatch := out.Stmts[0].(*ast.ExprStmt).X.(*ast.MethodCall)
	require.Len(t, dispatch.Args, 3)
	assert.Equal(t, "greet", dispatch.Args[0].Value.(*ast.String).Value)
	assert.Same(t, original.Args[0], dispatch.Args[1])
	assert.Same(t, original.Args[1], dispatch.Args[2])
}

func TestValidateInterceptedFunctions(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	out, err := validate(t, store, prog(stmt(call("get_defined_vars"))))
	require.NoError(t, err)
	assert.Equal(t, "$__sb->_get_defined_vars(get_defined_vars());", out.String())

	store = newStore(policy.DefaultFlags().Without(policy.OverwriteDefinedFuncs))
	out, err = validate(t, store, prog(stmt(call("get_defined_vars"))))
	require.NoError(t, err)
	assert.Equal(t, "get_defined_vars();", out.String())
}

func TestValidateArgumentIntrospection(t *testing.T) {
	tests := []struct {
		in   *ast.FuncCall
		want string
	}{
		{call("func_get_args"), "$__sb->_func_get_args(func_get_args());"},
		{call("func_num_args"), "$__sb->_func_num_args(func_get_args());"},
		{call("func_get_arg", num(2)), "$__sb->_func_get_arg(func_get_args(), 2);"},
		{call("func_get_arg"), "$__sb->_func_get_arg(func_get_args(), 0);"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			out, err := validate(t, newStore(policy.DefaultFlags()), prog(stmt(tt.in)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}

	store := newStore(policy.DefaultFlags().Without(policy.OverwriteFuncGetArgs))
	out, err := validate(t, store, prog(stmt(call("func_get_args"))))
	require.NoError(t, err)
	assert.Equal(t, "func_get_args();", out.String())
}

func TestValidateDynamicCallGuarded(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	p := prog(stmt(&ast.FuncCall{Fun: varRef("f"), Args: argList(num(1))}))
	out, err := validate(t, store, p)
	require.NoError(t, err)
	assert.Equal(t, "($__sb->check_func($f) ? $f(1) : null);", out.String())

	guard := out.Stmts[0].(*ast.ExprStmt).X.(*ast.Ternary)
	checked := guard.Cond.(*ast.MethodCall).Args[0].Value
	called := guard.Then.(*ast.FuncCall).Fun
	assert.Equal(t, called.String(), checked.String())
	assert.NotSame(t, called, checked)
}

func TestValidateFunctionPredicate(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	store.Whitelist(policy.Functions, "strlen")
	store.Blacklist(policy.Functions, "strlen")
	_, err := validate(t, store, prog(stmt(call("strlen", lit("x")))))
	requireCode(t, err, errors.InvalidFunction)

	store = newStore(policy.DefaultFlags())
	store.Whitelist(policy.Functions, "strlen")
	_, err = validate(t, store, prog(stmt(call("strlen", lit("x")))))
	require.NoError(t, err)
	_, err = validate(t, store, prog(stmt(call("exec", lit("x")))))
	requireCode(t, err, errors.InvalidFunction)
}

func TestValidateSandboxHandle(t *testing.T) {
	store := newStore(allFlags())
	store.Whitelist(policy.Variables, testHandle)
	_, err := validate(t, store, prog(echo(varRef(testHandle))))
	requireCode(t, err, errors.SandboxAccess)

	// Reported even when variables are disabled.
	_, err = validate(t, newStore(policy.Flags(0)), prog(echo(varRef(testHandle))))
	requireCode(t, err, errors.SandboxAccess)
}

func TestValidateVariables(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	_, err := validate(t, store, prog(echo(&ast.Variable{Name: varRef("name")})))
	requireCode(t, err, errors.DynamicVariable)

	store.Whitelist(policy.Variables, "a")
	_, err = validate(t, store, prog(echo(varRef("a"))))
	require.NoError(t, err)
	_, err = validate(t, store, prog(echo(varRef("b"))))
	requireCode(t, err, errors.InvalidVariable)
}

func TestValidateStaticVariables(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowStaticVariables))
	p := prog(&ast.StaticVarStmt{Vars: []*ast.StaticVar{{Name: varRef("x")}}})
	_, err := validate(t, store, p)
	requireCode(t, err, errors.DynamicStaticVar)

	store.Blacklist(policy.Variables, "secret")
	p = prog(&ast.StaticVarStmt{Vars: []*ast.StaticVar{{Name: &ast.Ident{Name: "secret"}}}})
	_, err = validate(t, store, p)
	requireCode(t, err, errors.InvalidVariable)
}

func TestValidateGlobals(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowGlobals))
	_, err := validate(t, store, prog(&ast.Global{Vars: []ast.Expr{call("f")}}))
	requireCode(t, err, errors.GlobalNonVariable)

	store.Blacklist(policy.Globals, "secret")
	_, err = validate(t, store, prog(&ast.Global{Vars: []ast.Expr{varRef("ok"), varRef("secret")}}))
	requireCode(t, err, errors.InvalidGlobal)
	assert.Equal(t, "secret", violationOf(t, err).Context)
}

func TestValidateConstants(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	store.Whitelist(policy.Constants, "FOO")

	_, err := validate(t, store, prog(echo(&ast.ConstFetch{Name: qname("FOO")})))
	require.NoError(t, err)
	_, err = validate(t, store, prog(echo(&ast.ConstFetch{Name: qname("true")}, &ast.ConstFetch{Name: qname("NULL")})))
	require.NoError(t, err)
	_, err = validate(t, store, prog(echo(&ast.ConstFetch{Name: qname("BAR")})))
	requireCode(t, err, errors.InvalidConstant)
	_, err = validate(t, store, prog(echo(&ast.ConstFetch{Name: varRef("c")})))
	requireCode(t, err, errors.DynamicConstant)
}

func TestValidateClosureCapturesHandle(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowClosures))
	closure := &ast.Closure{Uses: []*ast.ClosureUse{{Var: "x"}}}
	p := prog(stmt(&ast.Assign{Var: varRef("f"), X: closure}))

	out, err := validate(t, store, p)
	require.NoError(t, err)
	assert.Equal(t, "$f = function () use ($x, $__sb) {};", out.String())
	assert.Len(t, closure.Uses, 1)

	closure = &ast.Closure{Uses: []*ast.ClosureUse{{Var: testHandle}}}
	_, err = validate(t, store, prog(stmt(closure)))
	requireCode(t, err, errors.SandboxAccess)
}

func TestValidateClassSubstitution(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowObjects))
	store.DefineClass("Foo", "Sandboxed_Foo")

	foo := qname("Foo")
	p := prog(
		stmt(&ast.StaticCall{Class: foo, Method: &ast.Ident{Name: "make"}}),
		stmt(&ast.New{Class: qname("Foo")}),
		stmt(&ast.ClassConstFetch{Class: qname("foo"), Name: "BAR"}),
		stmt(&ast.StaticPropertyFetch{Class: qname("Foo"), Prop: &ast.Ident{Name: "count"}}),
		stmt(&ast.New{Class: qname("Bar")}),
	)
	out, err := validate(t, store, p)
	require.NoError(t, err)
	assert.Equal(t, "Sandboxed_Foo::make();\nnew Sandboxed_Foo();\nSandboxed_Foo::BAR;\nSandboxed_Foo::$count;\nnew Bar();", out.String())
	assert.Equal(t, "Foo", foo.Path())
}

func TestValidateClassAccessChecks(t *testing.T) {
	store := newStore(policy.DefaultFlags().With(policy.AllowObjects))
	_, err := validate(t, store, prog(stmt(&ast.New{Class: varRef("c")})))
	requireCode(t, err, errors.DynamicClass)
	_, err = validate(t, store, prog(stmt(&ast.StaticPropertyFetch{Class: varRef("c"), Prop: &ast.Ident{Name: "p"}})))
	requireCode(t, err, errors.DynamicClass)

	store.Blacklist(policy.Classes, "Evil")
	_, err = validate(t, store, prog(stmt(&ast.ClassConstFetch{Class: qname("Evil"), Name: "X"})))
	requireCode(t, err, errors.InvalidClass)

	store.Blacklist(policy.Types, "Danger")
	_, err = validate(t, store, prog(stmt(&ast.New{Class: qname("Danger")})))
	requireCode(t, err, errors.InvalidType)

	store.Blacklist(policy.Keywords, "new")
	_, err = validate(t, store, prog(stmt(&ast.New{Class: qname("Fine")})))
	requireCode(t, err, errors.InvalidKeyword)
}

func TestValidateClassDeclarations(t *testing.T) {
	var queries []policy.Query
	record := func(q policy.Query) bool {
		queries = append(queries, q)
		return true
	}
	store := newStore(allFlags(), policy.WithPredicate(policy.Classes, record), policy.WithPredicate(policy.Interfaces, record))
	p := prog(&ast.ClassDecl{Name: "A", Extends: qname("Base"), Implements: []*ast.Name{qname("I"), qname("J")}})
	_, err := validate(t, store, p)
	require.NoError(t, err)
	assert.Equal(t, []policy.Query{
		{Category: policy.Classes, Name: "A"},
		{Category: policy.Classes, Name: "Base", Parent: true},
		{Category: policy.Interfaces, Name: "I"},
		{Category: policy.Interfaces, Name: "J"},
	}, queries)

	_, err = validate(t, newStore(allFlags()), prog(&ast.ClassDecl{}))
	requireCode(t, err, errors.UnnamedClass)
	_, err = validate(t, newStore(allFlags()), prog(&ast.ClassDecl{Name: "A", Extends: &ast.Name{}}))
	requireCode(t, err, errors.UnnamedClass)

	store = newStore(allFlags())
	store.Blacklist(policy.Keywords, "extends")
	_, err = validate(t, store, p)
	requireCode(t, err, errors.InvalidKeyword)
	assert.Equal(t, "extends", violationOf(t, err).Context)

	store = newStore(allFlags())
	store.Blacklist(policy.Interfaces, "J")
	_, err = validate(t, store, p)
	requireCode(t, err, errors.InvalidInterface)
}

func TestValidateInterfacesAndTraits(t *testing.T) {
	_, err := validate(t, newStore(allFlags()), prog(&ast.InterfaceDecl{}))
	requireCode(t, err, errors.UnnamedInterface)
	_, err = validate(t, newStore(allFlags()), prog(&ast.TraitDecl{}))
	requireCode(t, err, errors.UnnamedTrait)

	store := newStore(allFlags())
	store.Blacklist(policy.Interfaces, "Base")
	_, err = validate(t, store, prog(&ast.InterfaceDecl{Name: "I", Extends: []*ast.Name{qname("Base")}}))
	requireCode(t, err, errors.InvalidInterface)

	store = newStore(allFlags())
	store.Blacklist(policy.Traits, "Evil")
	_, err = validate(t, store, prog(&ast.ClassDecl{Name: "C", Body: []ast.Stmt{
		&ast.TraitUse{Traits: []*ast.Name{qname("Good"), qname("Evil")}},
	}}))
	requireCode(t, err, errors.InvalidTrait)
}

func TestValidateUnnamedParents(t *testing.T) {
	_, err := validate(t, newStore(allFlags()), prog(&ast.ClassDecl{Name: "A", Implements: []*ast.Name{qname("I"), {}}}))
	requireCode(t, err, errors.UnnamedInterface)

	_, err = validate(t, newStore(allFlags()), prog(&ast.InterfaceDecl{Name: "I", Extends: []*ast.Name{nil}}))
	requireCode(t, err, errors.UnnamedInterface)

	_, err = validate(t, newStore(allFlags()), prog(&ast.ClassDecl{Name: "C", Body: []ast.Stmt{
		&ast.TraitUse{Traits: []*ast.Name{{}}},
	}}))
	requireCode(t, err, errors.UnnamedTrait)
}

func TestValidateMagicConstants(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	out, err := validate(t, store, prog(echo(&ast.MagicConst{Name: "__LINE__"})))
	require.NoError(t, err)
	assert.Equal(t, "echo __LINE__;", out.String())

	store.DefineMagicConst("__FILE__", "/sandbox.php")
	out, err = validate(t, store, prog(echo(&ast.MagicConst{Name: "__FILE__"})))
	require.NoError(t, err)
	assert.Equal(t, "echo $__sb->_get_magic_const('__FILE__');", out.String())

	store.Blacklist(policy.MagicConstants, "__DIR__")
	_, err = validate(t, store, prog(echo(&ast.MagicConst{Name: "__DIR__"})))
	requireCode(t, err, errors.InvalidMagicConst)
}

func TestValidateShellExec(t *testing.T) {
	backticks := policy.DefaultFlags().With(policy.AllowBackticks)
	ls := func() *ast.Program { return prog(stmt(&ast.ShellExec{Parts: []ast.Expr{lit("ls -la")}})) }

	store := newStore(policy.DefaultFlags())
	store.DefineFunc("shell_exec", func(string) string { return "" })
	out, err := validate(t, store, ls())
	require.NoError(t, err)
	assert.Equal(t, "$__sb->call_func('shell_exec', 'ls -la');", out.String())

	p := prog(stmt(&ast.ShellExec{Parts: []ast.Expr{lit("ls "), varRef("dir")}}))
	out, err = validate(t, store, p)
	require.NoError(t, err)
	assert.Equal(t, `$__sb->call_func('shell_exec', "ls {$dir}");`, out.String())

	store = newStore(backticks)
	store.Whitelist(policy.Functions, "strlen")
	_, err = validate(t, store, ls())
	requireCode(t, err, errors.EscapeBacktick)

	store.Whitelist(policy.Functions, "shell_exec")
	_, err = validate(t, store, ls())
	require.NoError(t, err)

	// The deny-list wins over the allow-list.
	store.Blacklist(policy.Functions, "shell_exec")
	_, err = validate(t, store, ls())
	requireCode(t, err, errors.EscapeBacktick)
}

func TestValidateKeywords(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	store.Blacklist(policy.Keywords, "echo")

	_, err := validate(t, store, prog(stmt(&ast.Print{X: num(1)})))
	requireCode(t, err, errors.InvalidKeyword)
	assert.Equal(t, "echo", violationOf(t, err).Context)

	store = newStore(policy.DefaultFlags())
	store.Blacklist(policy.Keywords, "for")
	_, err = validate(t, store, prog(&ast.Foreach{X: varRef("items"), Value: varRef("item")}))
	requireCode(t, err, errors.InvalidKeyword)

	_, err = validate(t, store, prog(&ast.While{Cond: num(1), Body: []ast.Stmt{&ast.Continue{}}}))
	require.NoError(t, err)
}

func TestValidateOperators(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	store.Whitelist(policy.Operators, "=", "++n")

	_, err := validate(t, store, prog(stmt(&ast.Assign{Var: varRef("a"), X: num(1)}), stmt(&ast.IncDec{Op: "++", Prefix: true, X: varRef("a")})))
	require.NoError(t, err)

	_, err = validate(t, store, prog(stmt(&ast.IncDec{Op: "++", X: varRef("a")})))
	requireCode(t, err, errors.InvalidOperator)
	assert.Equal(t, "n++", violationOf(t, err).Context)

	_, err = validate(t, store, prog(stmt(&ast.AssignRef{Var: varRef("a"), X: varRef("b")})))
	requireCode(t, err, errors.InvalidOperator)
	assert.Equal(t, "=&", violationOf(t, err).Context)
}

func TestValidatePrimitives(t *testing.T) {
	store := newStore(policy.DefaultFlags())
	store.Blacklist(policy.Primitives, "float")
	_, err := validate(t, store, prog(echo(&ast.Float{Value: 1.5})))
	requireCode(t, err, errors.InvalidPrimitive)
	_, err = validate(t, store, prog(echo(num(1), lit("s"), &ast.Array{})))
	require.NoError(t, err)
}

func TestValidateCastCheckedIdempotently(t *testing.T) {
	cast := func() *ast.Program {
		return prog(echo(&ast.Cast{Type: ast.CastInt, X: varRef("a")}))
	}

	// The casting flag is checked at the cast and again as a primitive;
	// either way a single violation is raised.
	var seen []errors.Code
	hook := policy.WithViolationHook(func(v *errors.Violation) { seen = append(seen, v.Code) })
	_, err := validate(t, newStore(policy.DefaultFlags(), hook), cast())
	requireCode(t, err, errors.DisallowedCast)
	assert.Equal(t, []errors.Code{errors.DisallowedCast}, seen)

	store := newStore(policy.DefaultFlags().With(policy.AllowCasting))
	_, err = validate(t, store, cast())
	require.NoError(t, err)

	store.Blacklist(policy.Primitives, "int")
	_, err = validate(t, store, cast())
	requireCode(t, err, errors.InvalidPrimitive)
	assert.Equal(t, "int", violationOf(t, err).Context)
}

func TestValidateStopsAtFirstViolation(t *testing.T) {
	var seen []errors.Code
	store := newStore(policy.DefaultFlags(), policy.WithViolationHook(func(v *errors.Violation) {
		seen = append(seen, v.Code)
	}))
	p := prog(
		echo(varRef(testHandle)),
		&ast.ConstDecl{Items: []*ast.ConstItem{{Name: "A", Value: num(1)}}},
		&ast.InlineHTML{Value: "<p>"},
	)
	_, err := validate(t, store, p)
	requireCode(t, err, errors.SandboxAccess)
	assert.Equal(t, []errors.Code{errors.SandboxAccess}, seen)
}

func TestValidateRewritesAreNotRevisited(t *testing.T) {
	var checked []string
	store := newStore(policy.DefaultFlags(), policy.WithPredicate(policy.Functions, func(q policy.Query) bool {
		checked = append(checked, q.Name)
		return true
	}))
	store.DefineFunc("greet", func() {})

	out, err := validate(t, store, prog(stmt(call("greet", num(1)))))
	require.NoError(t, err)
	assert.Equal(t, []string{"greet"}, checked)
	assert.Equal(t, "$__sb->call_func('greet', 1);", out.String())

	// A second validation of rewritten output sees the handle variable of
	// the synthetic call and rejects it: the validator runs once per tree.
	_, err = validate(t, store, out)
	requireCode(t, err, errors.SandboxAccess)
}

type bogus struct{ ast.Span }

func (bogus) Kind() ast.Kind  { return ast.KindInvalid }
func (bogus) String() string { return "bogus" }

func TestValidateUnhandledNode(t *testing.T) {
	_, err := NewValidator(newStore(allFlags())).Leave(bogus{})
	require.ErrorIs(t, err, ErrUnhandledNode)
}

func TestValidatorHandlesEveryKind(t *testing.T) {
	seen := map[ast.Kind]bool{}
	for _, node := range sampleNodes() {
		kind := node.Kind()
		require.False(t, seen[kind], "duplicate sample for %s", kind)
		seen[kind] = true

		_, err := NewValidator(newStore(allFlags())).Leave(node)
		require.NotErrorIs(t, err, ErrUnhandledNode, kind.String())
		if kind == ast.KindConstDecl {
			requireCode(t, err, errors.GlobalConst)
			continue
		}
		require.NoError(t, err, kind.String())
	}
	for _, kind := range ast.Kinds() {
		assert.True(t, seen[kind], "no sample for %s", kind)
	}
}

func sampleNodes() []ast.Node {
	ident := func(name string) *ast.Ident { return &ast.Ident{Name: name} }
	return []ast.Node{
		&ast.Program{},

		&ast.FuncDecl{Name: "f"},
		&ast.Param{Name: "a"},
		&ast.Closure{},
		&ast.ClosureUse{Var: "a"},
		&ast.ClassDecl{Name: "C"},
		&ast.InterfaceDecl{Name: "I"},
		&ast.TraitDecl{Name: "T"},
		&ast.TraitUse{Traits: []*ast.Name{qname("T")}},
		&ast.ClassMethod{Name: "m"},
		&ast.Property{Name: "p"},
		&ast.ClassConst{Items: []*ast.ConstItem{{Name: "K", Value: num(1)}}},
		&ast.ConstDecl{Items: []*ast.ConstItem{{Name: "K", Value: num(1)}}},
		&ast.ConstItem{Name: "K", Value: num(1)},
		&ast.Namespace{Name: qname("N")},
		&ast.Use{Items: []*ast.UseItem{{Name: qname("A")}}},
		&ast.UseItem{Name: qname("A")},

		&ast.InlineHTML{Value: "<p>"},
		echo(num(1)),
		stmt(num(1)),
		&ast.If{Cond: num(1)},
		&ast.ElseIf{Cond: num(1)},
		&ast.Else{},
		&ast.While{Cond: num(1)},
		&ast.Do{Cond: num(1)},
		&ast.For{},
		&ast.Foreach{X: varRef("a"), Value: varRef("b")},
		&ast.Switch{Cond: num(1)},
		&ast.Case{},
		&ast.Try{},
		&ast.Catch{Types: []*ast.Name{qname("Exception")}, Var: "e"},
		&ast.Finally{},
		&ast.Throw{X: varRef("e")},
		&ast.Break{},
		&ast.Continue{},
		&ast.Return{},
		&ast.Unset{Vars: []ast.Expr{varRef("a")}},
		&ast.StaticVarStmt{},
		&ast.StaticVar{Name: ident("s")},
		&ast.Global{Vars: []ast.Expr{varRef("g")}},
		&ast.Declare{},
		&ast.DeclareItem{Key: "ticks", Value: num(1)},
		&ast.Goto{Label: "l"},
		&ast.Label{Name: "l"},
		&ast.HaltCompiler{},

		varRef("a"),
		&ast.ArrayDimFetch{X: varRef("a")},
		&ast.PropertyFetch{X: varRef("a"), Prop: ident("p")},
		&ast.StaticPropertyFetch{Class: qname("C"), Prop: ident("p")},
		&ast.ConstFetch{Name: qname("K")},
		&ast.ClassConstFetch{Class: qname("C"), Name: "K"},
		call("f"),
		&ast.MethodCall{X: varRef("a"), Method: ident("m")},
		&ast.StaticCall{Class: qname("C"), Method: ident("m")},
		&ast.New{Class: qname("C")},
		&ast.Arg{Value: num(1)},
		&ast.Yield{},
		&ast.ErrorSuppress{X: num(1)},
		&ast.Assign{Var: varRef("a"), X: num(1)},
		&ast.AssignOp{Op: "+=", Var: varRef("a"), X: num(1)},
		&ast.AssignRef{Var: varRef("a"), X: varRef("b")},
		&ast.BinaryOp{Op: "+", X: num(1), Y: num(2)},
		&ast.Unary{Op: "-", X: num(1)},
		&ast.IncDec{Op: "++", X: varRef("a")},
		&ast.Ternary{Cond: num(1), Then: num(2), Else: num(3)},
		&ast.Cast{Type: ast.CastInt, X: varRef("a")},
		&ast.InstanceOf{X: varRef("a"), Class: qname("C")},
		&ast.Isset{Vars: []ast.Expr{varRef("a")}},
		&ast.Empty{X: varRef("a")},
		&ast.List{Items: []ast.Expr{varRef("a")}},
		&ast.Print{X: num(1)},
		&ast.Clone{X: varRef("a")},
		&ast.Eval{X: lit("1;")},
		&ast.Exit{},
		&ast.Include{Type: ast.IncludeRequire, X: lit("f.php")},
		&ast.ShellExec{Parts: []ast.Expr{lit("ls")}},
		&ast.MagicConst{Name: "__LINE__"},

		&ast.Array{},
		&ast.ArrayItem{Value: num(1)},
		lit("s"),
		&ast.Interpolated{Parts: []ast.Expr{lit("a"), varRef("b")}},
		&ast.Float{Value: 1.5},
		num(1),
		qname("N"),
		ident("i"),
	}
}
