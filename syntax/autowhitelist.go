package syntax

import (
	"strings"

	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/policy"
)

// AutoWhitelister seeds the allow-lists with the names the sandboxed code
// defines for itself: classes, interfaces, traits, functions, constants
// created through define() and imported globals. A category is seeded only
// when its feature and auto-whitelist flags are both enabled and its
// deny-list is empty.
//
// The pass never changes the tree.
type AutoWhitelister struct {
	store *policy.Store
}

// NewAutoWhitelister creates an auto-whitelist pass for the given store.
func NewAutoWhitelister(store *policy.Store) *AutoWhitelister {
	return &AutoWhitelister{store: store}
}

// Transform implements the Transformer interface.
func (a *AutoWhitelister) Transform(program *ast.Program) (*ast.Program, error) {
	log := a.store.Logger()
	log.Debug().Msg("auto-whitelist started")
	out, err := ast.Rewrite(program, a)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg("auto-whitelist finished")
	return out, nil
}

// Leave implements ast.Leaver.
func (a *AutoWhitelister) Leave(node ast.Node) (ast.Change, error) {
	switch n := node.(type) {
	case *ast.ClassDecl:
		if n.Name != "" && a.enabled(policy.AllowClasses, policy.AutoWhitelistClasses, policy.Classes) {
			a.store.Whitelist(policy.Classes, n.Name)
			if !a.store.HasDenylist(policy.Types) {
				a.store.Whitelist(policy.Types, n.Name)
			}
		}
	case *ast.InterfaceDecl:
		if n.Name != "" && a.enabled(policy.AllowInterfaces, policy.AutoWhitelistInterfaces, policy.Interfaces) {
			a.store.Whitelist(policy.Interfaces, n.Name)
		}
	case *ast.TraitDecl:
		if n.Name != "" && a.enabled(policy.AllowTraits, policy.AutoWhitelistTraits, policy.Traits) {
			a.store.Whitelist(policy.Traits, n.Name)
		}
	case *ast.FuncDecl:
		if n.Name != "" && a.enabled(policy.AllowFunctions, policy.AutoWhitelistFunctions, policy.Functions) {
			a.store.Whitelist(policy.Functions, n.Name)
		}
	case *ast.FuncCall:
		if name, ok := definedConst(n); ok && !a.store.IsDefinedFunc("define") &&
			a.enabled(policy.AllowConstants, policy.AutoWhitelistConstants, policy.Constants) {
			a.store.Whitelist(policy.Constants, name)
		}
	case *ast.Global:
		if a.store.HasAllowlist(policy.Variables) &&
			a.enabled(policy.AllowGlobals, policy.AutoWhitelistGlobals, policy.Variables) {
			a.store.Whitelist(policy.Variables, globalNames(n)...)
		}
	}
	return ast.Keep, nil
}

func (a *AutoWhitelister) enabled(feature, auto policy.Flag, c policy.Category) bool {
	return a.store.Flag(feature) && a.store.Flag(auto) && !a.store.HasDenylist(c)
}

// definedConst returns the constant name of a define('NAME', ...) call.
func definedConst(n *ast.FuncCall) (string, bool) {
	fn, ok := n.Fun.(*ast.Name)
	if !ok || fn == nil || !strings.EqualFold(fn.Path(), "define") || len(n.Args) == 0 || n.Args[0] == nil {
		return "", false
	}
	s, ok := n.Args[0].Value.(*ast.String)
	if !ok || s == nil || s.Value == "" {
		return "", false
	}
	return s.Value, true
}

// globalNames returns the literal variable names imported by a global
// statement.
func globalNames(n *ast.Global) []string {
	var names []string
	for _, expr := range n.Vars {
		if variable, ok := expr.(*ast.Variable); ok {
			if name, ok := ast.NameOf(variable.Name); ok {
				names = append(names, name)
			}
		}
	}
	return names
}
