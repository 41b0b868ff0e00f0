// Package sandbox prepares syntax trees for execution under a policy. A
// Sandbox owns a policy store and runs the whitelist passes followed by
// the validator over every program it is asked to prepare.
package sandbox

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/policy"
	"github.com/deepnoodle-ai/sandbox/syntax"
)

// ErrNilProgram is returned by Prepare when it is given no program.
var ErrNilProgram = errors.New("sandbox: nil program")

// Sandbox applies a policy store to untrusted programs.
type Sandbox struct {
	store   *policy.Store
	trusted []*ast.Program
	auto    bool
	log     zerolog.Logger
}

// New returns a Sandbox enforcing the policy held by store. A nil store is
// replaced by one with the default flags and no lists.
func New(store *policy.Store, opts ...Option) *Sandbox {
	o := collectOptions(opts...)
	if store == nil {
		store = policy.NewStore(policy.WithLogger(o.log))
	}
	return &Sandbox{
		store:   store,
		trusted: o.trusted,
		auto:    o.auto,
		log:     o.log.With().Str("handle", store.Handle()).Logger(),
	}
}

// FromConfig returns a Sandbox whose store is built from cfg. The store
// logs through the same logger as the Sandbox.
func FromConfig(cfg *policy.Config, opts ...Option) (*Sandbox, error) {
	o := collectOptions(opts...)
	store, err := cfg.NewStore(policy.WithLogger(o.log))
	if err != nil {
		return nil, err
	}
	return New(store, opts...), nil
}

// Store returns the policy store used by the Sandbox.
func (s *Sandbox) Store() *policy.Store {
	return s.store
}

// Handle returns the variable name the rewritten program uses to reach the
// sandbox runtime.
func (s *Sandbox) Handle() string {
	return s.store.Handle()
}

// Prepare validates code against the policy and returns the rewritten
// program. Every trusted program is harvested first, in the order it was
// supplied, and the names defined by code itself are then whitelisted
// (unless disabled with WithoutAutoWhitelist). The store accumulates these
// names across calls. Code is never modified: the result shares unchanged
// subtrees with it.
//
// A policy breach is reported as the *Violation defined by the errors
// package of this module. Other failures are wrapped traversal errors.
func (s *Sandbox) Prepare(code *ast.Program) (*ast.Program, error) {
	if code == nil {
		return nil, ErrNilProgram
	}
	for i, trusted := range s.trusted {
		if _, err := syntax.NewTrustedWhitelister(s.store).Transform(trusted); err != nil {
			return nil, fmt.Errorf("trusted code %d: %w", i, err)
		}
	}
	// Trusted programs are harvested once; their namespaces and aliases are
	// already registered.
	s.trusted = nil

	out, err := s.passes().Transform(code)
	if err != nil {
		s.log.Debug().Err(err).Msg("program rejected")
		return nil, err
	}
	s.log.Debug().Int("statements", len(out.Stmts)).Msg("program prepared")
	return out, nil
}

// passes returns the transformers applied to untrusted code.
func (s *Sandbox) passes() syntax.Transformer {
	var passes []syntax.Transformer
	if s.auto {
		auto := syntax.NewAutoWhitelister(s.store)
		passes = append(passes, syntax.TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
			out, err := auto.Transform(p)
			if err != nil {
				return nil, fmt.Errorf("auto-whitelist: %w", err)
			}
			return out, nil
		}))
	}
	passes = append(passes, syntax.NewValidator(s.store))
	return syntax.Chain(passes...)
}

// Check reports whether code satisfies the policy without keeping the
// rewritten tree. Names whitelisted on the way stay in the store.
func (s *Sandbox) Check(code *ast.Program) error {
	_, err := s.Prepare(code)
	return err
}
