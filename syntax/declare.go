package syntax

import (
	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/errors"
	"github.com/deepnoodle-ai/sandbox/policy"
)

// Namespace and import declarations are absorbed into the store rather
// than reproduced: the sandboxed program runs in one flat scope. Both the
// trusted pass and the validator handle them the same way.

// flattenNamespace validates and registers the namespace name, then
// splices the namespace body into the enclosing statement list.
func flattenNamespace(store *policy.Store, n *ast.Namespace) (ast.Change, error) {
	if n.Name == nil || len(n.Name.Parts) == 0 {
		return ast.Keep, store.Violation("namespace has no name", errors.InvalidNamespaceName, n, "")
	}
	name := n.Name.Path()
	if !store.CheckName(policy.Namespaces, name) {
		return ast.Keep, store.Violation("namespace failed custom validation", errors.InvalidNamespace, n, name)
	}
	if !store.IsDefinedNamespace(name) {
		store.DefineNamespace(name)
	}
	return ast.Splice(n.Body), nil
}

// absorbUse validates and registers every imported name. checkAs is called
// for each item that carries an alias; it may be nil. The use statement is
// removed.
func absorbUse(store *policy.Store, n *ast.Use, checkAs func(item *ast.UseItem) error) (ast.Change, error) {
	for _, item := range n.Items {
		if item == nil {
			continue
		}
		if item.Name == nil || len(item.Name.Parts) == 0 {
			return ast.Keep, store.Violation("imported name is empty", errors.InvalidAliasName, item, "")
		}
		name := item.Name.Path()
		if !store.CheckName(policy.Aliases, name) {
			return ast.Keep, store.Violation("alias failed custom validation", errors.InvalidAlias, item, name)
		}
		if item.Alias != "" && checkAs != nil {
			if err := checkAs(item); err != nil {
				return ast.Keep, err
			}
		}
		store.DefineAlias(name, item.Alias)
	}
	return ast.Remove(), nil
}
