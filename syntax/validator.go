package syntax

import (
	stderrors "errors"
	"fmt"
	"slices"

	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/errors"
	"github.com/deepnoodle-ai/sandbox/policy"
)

// ErrUnhandledNode is returned when the validator meets a node kind it
// does not know how to police.
var ErrUnhandledNode = stderrors.New("syntax: unhandled node kind")

// Validator enforces the store's policy over a sandboxed tree and rewrites
// the nodes whose behavior must be routed through the runtime handle.
//
// The first violation aborts the pass. Synthetic nodes produced by a
// rewrite are never traversed, so the validator does not police its own
// runtime calls.
//
// Functions declared by the program are tracked per pass: every Transform
// starts from an empty table, so a rejected program leaves nothing behind.
type Validator struct {
	store    *policy.Store
	declared map[string]struct{}
}

// NewValidator creates a validator for the given store.
func NewValidator(store *policy.Store) *Validator {
	return &Validator{store: store, declared: map[string]struct{}{}}
}

// Transform implements the Transformer interface.
func (v *Validator) Transform(program *ast.Program) (*ast.Program, error) {
	v.declared = map[string]struct{}{}
	log := v.store.Logger()
	log.Debug().Int("statements", len(program.Stmts)).Msg("validation started")
	out, err := ast.Rewrite(program, v)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("statements", len(out.Stmts)).Msg("validation finished")
	return out, nil
}

// Leave implements ast.Leaver. It is called once per node, after the
// node's children.
func (v *Validator) Leave(node ast.Node) (ast.Change, error) {
	switch n := node.(type) {
	case *ast.Program:
		return ast.Keep, nil

	// Gated constructs
	case *ast.InlineHTML:
		return ast.Keep, v.gate(policy.AllowEscaping, errors.EscapeOutput, n)
	case *ast.Cast:
		if err := v.gate(policy.AllowCasting, errors.DisallowedCast, n); err != nil {
			return ast.Keep, err
		}
		return ast.Keep, v.primitive(n)
	case *ast.FuncDecl:
		return ast.Keep, v.funcDecl(n)
	case *ast.Closure:
		return v.closure(n)
	case *ast.ClassDecl:
		return ast.Keep, v.classDecl(n)
	case *ast.InterfaceDecl:
		return ast.Keep, v.interfaceDecl(n)
	case *ast.TraitDecl:
		return ast.Keep, v.traitDecl(n)
	case *ast.TraitUse:
		return ast.Keep, v.traitUse(n)
	case *ast.Yield:
		if err := v.gate(policy.AllowGenerators, errors.DisallowedGenerator, n); err != nil {
			return ast.Keep, err
		}
		return ast.Keep, v.keyword(n, "yield")
	case *ast.Global:
		return ast.Keep, v.global(n)
	case *ast.StaticVar:
		return ast.Keep, v.staticVar(n)
	case *ast.ErrorSuppress:
		return ast.Keep, v.gate(policy.AllowErrorSuppressing, errors.DisallowedErrorSuppress, n)
	case *ast.AssignRef:
		if err := v.gate(policy.AllowReferences, errors.DisallowedReference, n); err != nil {
			return ast.Keep, err
		}
		return ast.Keep, v.operator(n)
	case *ast.HaltCompiler:
		if err := v.gate(policy.AllowHalting, errors.DisallowedHalt, n); err != nil {
			return ast.Keep, err
		}
		return ast.Keep, v.keyword(n, "halt")
	case *ast.Namespace:
		if err := v.gate(policy.AllowNamespaces, errors.DisallowedNamespace, n); err != nil {
			return ast.Keep, err
		}
		if err := v.keyword(n, "namespace"); err != nil {
			return ast.Keep, err
		}
		return flattenNamespace(v.store, n)
	case *ast.Use:
		if err := v.gate(policy.AllowAliases, errors.DisallowedAlias, n); err != nil {
			return ast.Keep, err
		}
		if err := v.keyword(n, "use"); err != nil {
			return ast.Keep, err
		}
		return absorbUse(v.store, n, func(item *ast.UseItem) error {
			return v.keyword(item, "as")
		})
	case *ast.ConstDecl:
		return ast.Keep, v.store.Violation("const declarations are only allowed inside a class", errors.GlobalConst, n, "")

	// Name resolution
	case *ast.FuncCall:
		return v.funcCall(n)
	case *ast.Variable:
		return v.variable(n)
	case *ast.ConstFetch:
		return ast.Keep, v.constFetch(n)
	case *ast.ClassConstFetch:
		return v.classAccess(n, n.Class, func(class ast.Expr) ast.Node {
			c := *n
			c.Class = class
			return &c
		})
	case *ast.StaticCall:
		return v.classAccess(n, n.Class, func(class ast.Expr) ast.Node {
			c := *n
			c.Class = class
			return &c
		})
	case *ast.StaticPropertyFetch:
		return v.classAccess(n, n.Class, func(class ast.Expr) ast.Node {
			c := *n
			c.Class = class
			return &c
		})
	case *ast.New:
		return v.newObject(n)
	case *ast.ShellExec:
		return v.shellExec(n)
	case *ast.MagicConst:
		return v.magicConst(n)

	// Keywords
	case *ast.If, *ast.ElseIf, *ast.Else, *ast.While, *ast.Do, *ast.For, *ast.Foreach,
		*ast.Switch, *ast.Case, *ast.Try, *ast.Catch, *ast.Finally, *ast.Throw,
		*ast.Break, *ast.Return, *ast.Unset, *ast.StaticVarStmt, *ast.Declare,
		*ast.DeclareItem, *ast.Goto, *ast.Label, *ast.InstanceOf, *ast.Isset,
		*ast.List, *ast.Echo, *ast.Print, *ast.Clone, *ast.Empty, *ast.Eval,
		*ast.Exit, *ast.Include:
		name, _ := keywordOf(n)
		return ast.Keep, v.keyword(n, name)

	// Operators
	case *ast.Assign, *ast.AssignOp, *ast.BinaryOp, *ast.Unary, *ast.IncDec, *ast.Ternary:
		return ast.Keep, v.operator(n)

	// Primitives
	case *ast.Array, *ast.String, *ast.Interpolated, *ast.Float, *ast.Int:
		return ast.Keep, v.primitive(n)

	// No policy of their own
	case *ast.Param, *ast.ClosureUse, *ast.ClassMethod, *ast.Property, *ast.ClassConst,
		*ast.ConstItem, *ast.UseItem, *ast.ExprStmt, *ast.Continue, *ast.ArrayDimFetch,
		*ast.PropertyFetch, *ast.MethodCall, *ast.Arg, *ast.ArrayItem, *ast.Name, *ast.Ident:
		return ast.Keep, nil
	}
	return ast.Keep, fmt.Errorf("%w: %s", ErrUnhandledNode, node.Kind())
}

func (v *Validator) violation(message string, code errors.Code, node ast.Node, context string) error {
	return v.store.Violation(message, code, node, context)
}

// gate requires a feature flag.
func (v *Validator) gate(f policy.Flag, code errors.Code, node ast.Node) error {
	if v.store.Flag(f) {
		return nil
	}
	return v.violation(code.Description(), code, node, "")
}

func (v *Validator) keyword(node ast.Node, name string) error {
	if v.store.CheckName(policy.Keywords, name) {
		return nil
	}
	return v.violation("keyword failed custom validation", errors.InvalidKeyword, node, name)
}

func (v *Validator) operator(node ast.Node) error {
	name, ok := operatorOf(node)
	if !ok || v.store.CheckName(policy.Operators, name) {
		return nil
	}
	return v.violation("operator failed custom validation", errors.InvalidOperator, node, name)
}

// primitive checks literals and casts. Casts are gated by the casting flag
// here too, whichever branch reached it.
func (v *Validator) primitive(node ast.Node) error {
	if _, ok := node.(*ast.Cast); ok {
		if err := v.gate(policy.AllowCasting, errors.DisallowedCast, node); err != nil {
			return err
		}
	}
	name, ok := primitiveOf(node)
	if !ok || v.store.CheckName(policy.Primitives, name) {
		return nil
	}
	return v.violation("primitive failed custom validation", errors.InvalidPrimitive, node, name)
}

func (v *Validator) check(q policy.Query, code errors.Code, node ast.Node, what string) error {
	if v.store.Check(q) {
		return nil
	}
	return v.violation(what+" failed custom validation", code, node, q.Name)
}

func (v *Validator) funcDecl(n *ast.FuncDecl) error {
	if err := v.gate(policy.AllowFunctions, errors.DisallowedFunction, n); err != nil {
		return err
	}
	if err := v.keyword(n, "function"); err != nil {
		return err
	}
	if n.Name == "" {
		return v.violation("function has no name", errors.UnnamedFunction, n, "")
	}
	key := policy.Functions.Normalize(n.Name)
	if _, ok := v.declared[key]; ok || v.store.IsDefinedFunc(n.Name) {
		return v.violation("function is already defined", errors.FunctionRedefined, n, n.Name)
	}
	if n.ByRef && !v.store.Flag(policy.AllowReferences) {
		return v.violation("function returns by reference", errors.DisallowedReference, n, n.Name)
	}
	v.declared[key] = struct{}{}
	return nil
}

// Declared returns the functions declared by the program of the last
// Transform, normalized and sorted.
func (v *Validator) Declared() []string {
	names := make([]string, 0, len(v.declared))
	for name := range v.declared {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// closure injects the runtime handle into the closure's captured
// variables; nested scopes do not see it otherwise.
func (v *Validator) closure(n *ast.Closure) (ast.Change, error) {
	if err := v.gate(policy.AllowClosures, errors.DisallowedClosure, n); err != nil {
		return ast.Keep, err
	}
	handle := v.store.Handle()
	for _, use := range n.Uses {
		if use != nil && use.Var == handle {
			return ast.Keep, v.violation("closure captures the sandbox handle", errors.SandboxAccess, use, handle)
		}
	}
	c := *n
	c.Uses = append(slices.Clip(n.Uses), &ast.ClosureUse{Span: n.Span, Var: handle})
	return ast.Replace(&c), nil
}

func (v *Validator) classDecl(n *ast.ClassDecl) error {
	if err := v.gate(policy.AllowClasses, errors.DisallowedClass, n); err != nil {
		return err
	}
	if err := v.keyword(n, "class"); err != nil {
		return err
	}
	if n.Name == "" {
		return v.violation("class has no name", errors.UnnamedClass, n, "")
	}
	if err := v.check(policy.Query{Category: policy.Classes, Name: n.Name}, errors.InvalidClass, n, "class"); err != nil {
		return err
	}
	if n.Extends != nil {
		if err := v.keyword(n, "extends"); err != nil {
			return err
		}
		parent := n.Extends.Path()
		if parent == "" {
			return v.violation("parent class has no name", errors.UnnamedClass, n, "")
		}
		q := policy.Query{Category: policy.Classes, Name: parent, Parent: true}
		if err := v.check(q, errors.InvalidClass, n, "parent class"); err != nil {
			return err
		}
	}
	if len(n.Implements) > 0 {
		if err := v.keyword(n, "implements"); err != nil {
			return err
		}
		for _, iface := range n.Implements {
			if iface == nil || iface.Path() == "" {
				return v.violation("interface has no name", errors.UnnamedInterface, n, "")
			}
			q := policy.Query{Category: policy.Interfaces, Name: iface.Path()}
			if err := v.check(q, errors.InvalidInterface, n, "interface"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Validator) interfaceDecl(n *ast.InterfaceDecl) error {
	if err := v.gate(policy.AllowInterfaces, errors.DisallowedInterface, n); err != nil {
		return err
	}
	if err := v.keyword(n, "interface"); err != nil {
		return err
	}
	if n.Name == "" {
		return v.violation("interface has no name", errors.UnnamedInterface, n, "")
	}
	if err := v.check(policy.Query{Category: policy.Interfaces, Name: n.Name}, errors.InvalidInterface, n, "interface"); err != nil {
		return err
	}
	if len(n.Extends) > 0 {
		if err := v.keyword(n, "extends"); err != nil {
			return err
		}
		for _, parent := range n.Extends {
			if parent == nil || parent.Path() == "" {
				return v.violation("parent interface has no name", errors.UnnamedInterface, n, "")
			}
			q := policy.Query{Category: policy.Interfaces, Name: parent.Path(), Parent: true}
			if err := v.check(q, errors.InvalidInterface, n, "parent interface"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Validator) traitDecl(n *ast.TraitDecl) error {
	if err := v.gate(policy.AllowTraits, errors.DisallowedTrait, n); err != nil {
		return err
	}
	if err := v.keyword(n, "trait"); err != nil {
		return err
	}
	if n.Name == "" {
		return v.violation("trait has no name", errors.UnnamedTrait, n, "")
	}
	return v.check(policy.Query{Category: policy.Traits, Name: n.Name}, errors.InvalidTrait, n, "trait")
}

func (v *Validator) traitUse(n *ast.TraitUse) error {
	if err := v.keyword(n, "use"); err != nil {
		return err
	}
	for _, trait := range n.Traits {
		if trait == nil || trait.Path() == "" {
			return v.violation("trait has no name", errors.UnnamedTrait, n, "")
		}
		if err := v.check(policy.Query{Category: policy.Traits, Name: trait.Path()}, errors.InvalidTrait, n, "trait"); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) global(n *ast.Global) error {
	if err := v.gate(policy.AllowGlobals, errors.DisallowedGlobal, n); err != nil {
		return err
	}
	if err := v.keyword(n, "global"); err != nil {
		return err
	}
	for _, expr := range n.Vars {
		variable, ok := expr.(*ast.Variable)
		if !ok {
			return v.violation("global target is not a variable", errors.GlobalNonVariable, n, "")
		}
		name, ok := ast.NameOf(variable.Name)
		if !ok {
			return v.violation("global target is not a variable", errors.GlobalNonVariable, n, "")
		}
		if err := v.check(policy.Query{Category: policy.Globals, Name: name}, errors.InvalidGlobal, n, "global"); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) staticVar(n *ast.StaticVar) error {
	if err := v.gate(policy.AllowStaticVariables, errors.DisallowedStaticVar, n); err != nil {
		return err
	}
	name, ok := ast.NameOf(n.Name)
	if !ok {
		return v.violation("static variable has a dynamic name", errors.DynamicStaticVar, n, "")
	}
	return v.check(policy.Query{Category: policy.Variables, Name: name}, errors.InvalidVariable, n, "variable")
}

// funcCall checks a call by name and reroutes it when the runtime must
// take part: overridden functions, intercepted built-ins, argument
// introspection and calls through a computed name.
func (v *Validator) funcCall(n *ast.FuncCall) (ast.Change, error) {
	handle := v.store.Handle()
	name, ok := ast.NameOf(n.Fun)
	if !ok {
		return ast.Replace(guardedCall(n, handle)), nil
	}
	if err := v.check(policy.Query{Category: policy.Functions, Name: name}, errors.InvalidFunction, n, "function"); err != nil {
		return ast.Keep, err
	}
	switch {
	case v.store.IsDefinedFunc(name):
		return ast.Replace(dispatchCall(n, handle, name)), nil
	case v.store.Flag(policy.OverwriteDefinedFuncs) && policy.IsInterceptedFunc(name):
		return ast.Replace(interceptCall(n, handle, name)), nil
	case v.store.Flag(policy.OverwriteFuncGetArgs) && policy.IsArgFunc(name):
		return ast.Replace(argsCall(n, handle, name)), nil
	}
	return ast.Keep, nil
}

func (v *Validator) variable(n *ast.Variable) (ast.Change, error) {
	name, ok := ast.NameOf(n.Name)
	if !ok {
		return ast.Keep, v.violation("variable has a dynamic name", errors.DynamicVariable, n, "")
	}
	if name == v.store.Handle() {
		return ast.Keep, v.violation("code accessed the sandbox handle", errors.SandboxAccess, n, name)
	}
	if err := v.gate(policy.AllowVariables, errors.DisallowedVariable, n); err != nil {
		return ast.Keep, err
	}
	if !policy.IsSuperglobal(name) {
		return ast.Keep, v.check(policy.Query{Category: policy.Variables, Name: name}, errors.InvalidVariable, n, "variable")
	}
	if err := v.check(policy.Query{Category: policy.Superglobals, Name: name}, errors.InvalidSuperglobal, n, "superglobal"); err != nil {
		return ast.Keep, err
	}
	if v.store.Flag(policy.OverwriteSuperglobals) {
		return ast.Replace(handleCall(n.Span, v.store.Handle(), policy.GetSuperglobal, str(n.Span, name))), nil
	}
	return ast.Keep, nil
}

func (v *Validator) constFetch(n *ast.ConstFetch) error {
	name, ok := n.Name.(*ast.Name)
	if !ok || name == nil {
		return v.violation("constant has a dynamic name", errors.DynamicConstant, n, "")
	}
	if isLiteralConst(name.Path()) {
		return nil
	}
	return v.check(policy.Query{Category: policy.Constants, Name: name.Path()}, errors.InvalidConstant, n, "constant")
}

// classAccess polices class constant fetches, static calls and static
// property fetches. A remapped class is substituted before it is checked;
// rebuild returns a copy of the node with the new class name.
func (v *Validator) classAccess(n ast.Node, class ast.Expr, rebuild func(ast.Expr) ast.Node) (ast.Change, error) {
	name, ok := class.(*ast.Name)
	if !ok || name == nil {
		return ast.Keep, v.violation("class has a dynamic name", errors.DynamicClass, n, "")
	}
	change := ast.Keep
	if v.store.IsDefinedClass(name.Path()) {
		name = substitute(name, v.store.DefinedClass(name.Path()))
		change = ast.Replace(rebuild(name))
	}
	return change, v.check(policy.Query{Category: policy.Classes, Name: name.Path()}, errors.InvalidClass, n, "class")
}

func (v *Validator) newObject(n *ast.New) (ast.Change, error) {
	if err := v.gate(policy.AllowObjects, errors.DisallowedObject, n); err != nil {
		return ast.Keep, err
	}
	if err := v.keyword(n, "new"); err != nil {
		return ast.Keep, err
	}
	name, ok := n.Class.(*ast.Name)
	if !ok || name == nil {
		return ast.Keep, v.violation("class has a dynamic name", errors.DynamicClass, n, "")
	}
	change := ast.Keep
	if v.store.IsDefinedClass(name.Path()) {
		name = substitute(name, v.store.DefinedClass(name.Path()))
		c := *n
		c.Class = name
		change = ast.Replace(&c)
	}
	return change, v.check(policy.Query{Category: policy.Types, Name: name.Path()}, errors.InvalidType, n, "type")
}

func substitute(name *ast.Name, path string) *ast.Name {
	sub := ast.NewName(path)
	sub.Span = name.Span
	return sub
}

// shellExec polices backtick execution under the rules of shell_exec.
func (v *Validator) shellExec(n *ast.ShellExec) (ast.Change, error) {
	const fn = "shell_exec"
	if v.store.IsDefinedFunc(fn) {
		call := handleCall(n.Span, v.store.Handle(), policy.CallFunc, str(n.Span, fn), shellContent(n))
		return ast.Replace(call), nil
	}
	switch {
	case v.store.HasDenylist(policy.Functions):
		if v.store.IsDenylisted(policy.Functions, fn) {
			return ast.Keep, v.violation("shell_exec is blacklisted", errors.EscapeBacktick, n, fn)
		}
	case v.store.HasAllowlist(policy.Functions):
		if !v.store.IsAllowlisted(policy.Functions, fn) {
			return ast.Keep, v.violation("shell_exec is not whitelisted", errors.EscapeBacktick, n, fn)
		}
	}
	return ast.Keep, v.gate(policy.AllowBackticks, errors.EscapeBacktick, n)
}

func (v *Validator) magicConst(n *ast.MagicConst) (ast.Change, error) {
	if err := v.check(policy.Query{Category: policy.MagicConstants, Name: n.Name}, errors.InvalidMagicConst, n, "magic constant"); err != nil {
		return ast.Keep, err
	}
	if v.store.IsDefinedMagicConst(n.Name) {
		return ast.Replace(handleCall(n.Span, v.store.Handle(), policy.GetMagicConst, str(n.Span, n.Name))), nil
	}
	return ast.Keep, nil
}
