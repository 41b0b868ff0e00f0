package sandbox

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/sandbox/ast"
)

// Option configures a Sandbox.
type Option func(*options)

type options struct {
	trusted []*ast.Program
	auto    bool
	log     zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{auto: true, log: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithTrustedCode supplies programs whose referenced names are added to the
// allow-lists before the first program is validated. This option is
// additive and programs are harvested in the order given. Nil programs are
// ignored.
func WithTrustedCode(programs ...*ast.Program) Option {
	return func(o *options) {
		for _, p := range programs {
			if p != nil {
				o.trusted = append(o.trusted, p)
			}
		}
	}
}

// WithLogger sets the logger used by the Sandbox. By default nothing is
// logged.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithoutAutoWhitelist disables whitelisting of the classes, functions and
// other names a program defines for itself. The per-category
// auto-whitelist flags are still required when this option is absent.
func WithoutAutoWhitelist() Option {
	return func(o *options) {
		o.auto = false
	}
}
