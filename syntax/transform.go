// Package syntax implements the passes run over a syntax tree before it is
// handed to the executor: the auto-whitelist and trusted-code passes that
// seed the policy store, and the validator that enforces the policy and
// rewrites nodes onto the runtime handle.
package syntax

import "github.com/deepnoodle-ai/sandbox/ast"

// Transformer processes a syntax tree and returns a (possibly new) tree.
// The passes in this package never modify the tree they are given.
type Transformer interface {
	// Transform processes the tree and returns the result. The returned
	// tree is the input itself when the pass changed nothing.
	Transform(program *ast.Program) (*ast.Program, error)
}

// TransformerFunc is an adapter to use a function as a Transformer.
type TransformerFunc func(*ast.Program) (*ast.Program, error)

// Transform implements the Transformer interface.
func (f TransformerFunc) Transform(p *ast.Program) (*ast.Program, error) {
	return f(p)
}

// Chain runs transformers in order, feeding each one the tree returned by
// the previous one. It stops at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		var err error
		for _, t := range transformers {
			if p, err = t.Transform(p); err != nil {
				return nil, err
			}
		}
		return p, nil
	})
}
