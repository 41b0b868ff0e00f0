package syntax

import (
	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/policy"
)

// TrustedWhitelister harvests every name referenced by trusted code into
// the allow-lists, so that sandboxed code may use whatever the trusted
// code uses. Categories with a non-empty deny-list are skipped. Variable
// names are harvested only when a variable allow-list already exists.
//
// Namespace and use statements are applied to the store directly: the
// namespace body is flattened into the enclosing scope and use statements
// are removed.
type TrustedWhitelister struct {
	store *policy.Store
}

// NewTrustedWhitelister creates a trusted-code pass for the given store.
func NewTrustedWhitelister(store *policy.Store) *TrustedWhitelister {
	return &TrustedWhitelister{store: store}
}

// Transform implements the Transformer interface.
func (w *TrustedWhitelister) Transform(program *ast.Program) (*ast.Program, error) {
	log := w.store.Logger()
	log.Debug().Int("statements", len(program.Stmts)).Msg("trusted whitelist started")
	out, err := ast.Rewrite(program, w)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg("trusted whitelist finished")
	return out, nil
}

// Leave implements ast.Leaver.
func (w *TrustedWhitelister) Leave(node ast.Node) (ast.Change, error) {
	switch n := node.(type) {
	case *ast.FuncCall:
		if name, ok := n.Fun.(*ast.Name); ok && name != nil {
			w.add(policy.Functions, name.Path())
		}
		if name, ok := definedConst(n); ok && !w.store.IsDefinedFunc("define") {
			w.add(policy.Constants, name)
		}
	case *ast.FuncDecl:
		if n.Name != "" {
			w.add(policy.Functions, n.Name)
		}
	case *ast.Variable:
		if name, ok := ast.NameOf(n.Name); ok {
			w.addVariables(name)
		}
	case *ast.StaticVar:
		if name, ok := ast.NameOf(n.Name); ok {
			w.addVariables(name)
		}
	case *ast.Global:
		w.addVariables(globalNames(n)...)
	case *ast.ConstFetch:
		if name, ok := n.Name.(*ast.Name); ok && name != nil {
			w.add(policy.Constants, name.Path())
		}
	case *ast.ClassDecl:
		if n.Name != "" {
			w.add(policy.Classes, n.Name)
		}
	case *ast.InterfaceDecl:
		if n.Name != "" {
			w.add(policy.Interfaces, n.Name)
		}
	case *ast.TraitDecl:
		if n.Name != "" {
			w.add(policy.Traits, n.Name)
		}
	case *ast.New:
		if name, ok := n.Class.(*ast.Name); ok && name != nil {
			w.add(policy.Types, name.Path())
		}
	case *ast.Namespace:
		if n.Name == nil {
			return ast.Splice(n.Body), nil
		}
		return flattenNamespace(w.store, n)
	case *ast.Use:
		return absorbUse(w.store, n, nil)
	}
	return ast.Keep, nil
}

func (w *TrustedWhitelister) add(c policy.Category, names ...string) {
	if len(names) == 0 || w.store.HasDenylist(c) {
		return
	}
	w.store.Whitelist(c, names...)
}

func (w *TrustedWhitelister) addVariables(names ...string) {
	if !w.store.HasAllowlist(policy.Variables) {
		return
	}
	w.add(policy.Variables, names...)
}
