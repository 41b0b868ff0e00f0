// Package policy holds the state consulted and mutated by the sandbox
// passes: feature flags, per-category allow and deny lists, custom
// predicates, override tables and the tables of names the sandboxed code
// defines for itself.
package policy

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/sandbox/ast"
	"github.com/deepnoodle-ai/sandbox/errors"
)

// Query describes a single name check against a category.
type Query struct {
	Category Category
	Name     string
	// Parent is set when a class name is checked as the parent of a class
	// declaration.
	Parent bool
}

// Predicate is a custom check registered for a category. It is consulted
// before the category's lists.
type Predicate func(q Query) bool

// ViolationHook observes every violation raised through a Store.
type ViolationHook func(v *errors.Violation)

// Store is the policy state shared by every pass of one sandbox. It is not
// safe for concurrent use; passes run sequentially and own the store for
// their duration.
type Store struct {
	flags      Flags
	handle     string
	allow      [categoryCount]map[string]struct{}
	deny       [categoryCount]map[string]struct{}
	predicates [categoryCount]Predicate

	funcs       map[string]any
	magicConsts map[string]any
	classes     map[string]string
	namespaces  map[string]string
	aliases     map[string]string

	log  zerolog.Logger
	hook ViolationHook
}

// Option configures a Store.
type Option func(*Store)

// WithFlags replaces the store's flag set.
func WithFlags(flags Flags) Option {
	return func(s *Store) {
		s.flags = flags
	}
}

// WithHandle sets the variable name reserved for the sandbox runtime
// handle. An empty name keeps the generated one.
func WithHandle(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.handle = name
		}
	}
}

// WithLogger sets the logger used for store mutations and violations.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithViolationHook registers a function called for every violation.
func WithViolationHook(hook ViolationHook) Option {
	return func(s *Store) {
		s.hook = hook
	}
}

// WithPredicate registers a custom predicate for a category.
func WithPredicate(c Category, p Predicate) Option {
	return func(s *Store) {
		s.predicates[c] = p
	}
}

// NewStore returns a store configured with DefaultFlags and a freshly
// generated handle name, then applies the given options.
func NewStore(opts ...Option) *Store {
	s := &Store{
		flags:       DefaultFlags(),
		handle:      NewHandleName(),
		funcs:       map[string]any{},
		magicConsts: map[string]any{},
		classes:     map[string]string{},
		namespaces:  map[string]string{},
		aliases:     map[string]string{},
		log:         zerolog.Nop(),
	}
	for c := range s.allow {
		s.allow[c] = map[string]struct{}{}
		s.deny[c] = map[string]struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Flags returns the current flag set.
func (s *Store) Flags() Flags { return s.flags }

// Flag reports whether f is enabled.
func (s *Store) Flag(f Flag) bool { return s.flags.Has(f) }

// SetFlag enables or disables f.
func (s *Store) SetFlag(f Flag, enabled bool) {
	s.flags = s.flags.Set(f, enabled)
	s.log.Debug().Str("flag", f.String()).Bool("enabled", enabled).Msg("flag set")
}

// Handle returns the variable name reserved for the runtime handle.
func (s *Store) Handle() string { return s.handle }

// Logger returns the store's logger.
func (s *Store) Logger() zerolog.Logger { return s.log }

// Whitelist adds names to the allow-list of c. Adding a name twice is a
// no-op.
func (s *Store) Whitelist(c Category, names ...string) {
	for _, name := range names {
		key := c.Normalize(name)
		if _, ok := s.allow[c][key]; ok {
			continue
		}
		s.allow[c][key] = struct{}{}
		s.log.Debug().Str("category", c.String()).Str("name", name).Msg("whitelisted")
	}
}

// Blacklist adds names to the deny-list of c.
func (s *Store) Blacklist(c Category, names ...string) {
	for _, name := range names {
		key := c.Normalize(name)
		if _, ok := s.deny[c][key]; ok {
			continue
		}
		s.deny[c][key] = struct{}{}
		s.log.Debug().Str("category", c.String()).Str("name", name).Msg("blacklisted")
	}
}

// HasAllowlist reports whether c has a non-empty allow-list.
func (s *Store) HasAllowlist(c Category) bool { return len(s.allow[c]) > 0 }

// HasDenylist reports whether c has a non-empty deny-list.
func (s *Store) HasDenylist(c Category) bool { return len(s.deny[c]) > 0 }

// IsAllowlisted reports whether name is on the allow-list of c.
func (s *Store) IsAllowlisted(c Category, name string) bool {
	_, ok := s.allow[c][c.Normalize(name)]
	return ok
}

// IsDenylisted reports whether name is on the deny-list of c.
func (s *Store) IsDenylisted(c Category, name string) bool {
	_, ok := s.deny[c][c.Normalize(name)]
	return ok
}

// Allowlist returns the normalized allow-list of c, sorted.
func (s *Store) Allowlist(c Category) []string { return sortedKeys(s.allow[c]) }

// Denylist returns the normalized deny-list of c, sorted.
func (s *Store) Denylist(c Category) []string { return sortedKeys(s.deny[c]) }

// SetPredicate registers a custom predicate for c, replacing any previous
// one. A nil predicate removes it.
func (s *Store) SetPredicate(c Category, p Predicate) {
	s.predicates[c] = p
}

// Check reports whether the query passes the category's predicate and
// lists. A non-empty deny-list takes precedence over the allow-list: a
// name on both is rejected.
func (s *Store) Check(q Query) bool {
	if p := s.predicates[q.Category]; p != nil && !p(q) {
		return false
	}
	if s.HasDenylist(q.Category) {
		return !s.IsDenylisted(q.Category, q.Name)
	}
	if s.HasAllowlist(q.Category) {
		return s.IsAllowlisted(q.Category, q.Name)
	}
	return true
}

// CheckName is shorthand for Check with a plain query.
func (s *Store) CheckName(c Category, name string) bool {
	return s.Check(Query{Category: c, Name: name})
}

// DefineFunc registers a host implementation overriding the named
// function. Calls to it are routed through the runtime dispatcher.
func (s *Store) DefineFunc(name string, impl any) {
	s.funcs[Functions.Normalize(name)] = impl
	s.log.Debug().Str("function", name).Msg("function overridden")
}

// IsDefinedFunc reports whether the named function has an override.
func (s *Store) IsDefinedFunc(name string) bool {
	_, ok := s.funcs[Functions.Normalize(name)]
	return ok
}

// DefinedFunc returns the override registered for name.
func (s *Store) DefinedFunc(name string) (any, bool) {
	impl, ok := s.funcs[Functions.Normalize(name)]
	return impl, ok
}

// DefineMagicConst registers a runtime value for a magic constant.
func (s *Store) DefineMagicConst(name string, value any) {
	s.magicConsts[normalizeMagicConst(name)] = value
	s.log.Debug().Str("magic_constant", name).Msg("magic constant overridden")
}

// IsDefinedMagicConst reports whether the magic constant has an override.
func (s *Store) IsDefinedMagicConst(name string) bool {
	_, ok := s.magicConsts[normalizeMagicConst(name)]
	return ok
}

// DefineClass remaps references to a class name onto a substitute.
func (s *Store) DefineClass(name, substitute string) {
	s.classes[Classes.Normalize(name)] = substitute
	s.log.Debug().Str("class", name).Str("substitute", substitute).Msg("class defined")
}

// IsDefinedClass reports whether the class name is remapped.
func (s *Store) IsDefinedClass(name string) bool {
	_, ok := s.classes[Classes.Normalize(name)]
	return ok
}

// DefinedClass returns the substitute for a class name, or the name itself
// when it is not remapped.
func (s *Store) DefinedClass(name string) string {
	if sub, ok := s.classes[Classes.Normalize(name)]; ok {
		return sub
	}
	return name
}

// DefineNamespace registers a namespace.
func (s *Store) DefineNamespace(name string) {
	s.namespaces[Namespaces.Normalize(name)] = name
	s.log.Debug().Str("namespace", name).Msg("namespace defined")
}

// IsDefinedNamespace reports whether the namespace was registered.
func (s *Store) IsDefinedNamespace(name string) bool {
	_, ok := s.namespaces[Namespaces.Normalize(name)]
	return ok
}

// DefineAlias registers an imported name. An empty alias imports the name
// under its last path segment.
func (s *Store) DefineAlias(name, alias string) {
	s.aliases[Aliases.Normalize(name)] = alias
	s.log.Debug().Str("name", name).Str("alias", alias).Msg("alias defined")
}

// IsDefinedAlias reports whether the name was imported.
func (s *Store) IsDefinedAlias(name string) bool {
	_, ok := s.aliases[Aliases.Normalize(name)]
	return ok
}

// DefinedAlias returns the alias registered for name.
func (s *Store) DefinedAlias(name string) (string, bool) {
	alias, ok := s.aliases[Aliases.Normalize(name)]
	return alias, ok
}

// Violation builds the violation error for node, logs it and notifies the
// violation hook. The returned error is always a *errors.Violation.
func (s *Store) Violation(message string, code errors.Code, node ast.Node, context string) error {
	v := errors.New(code, message, node, context)
	evt := s.log.Debug().Str("code", string(code)).Str("context", context)
	if pos := v.Position(); pos.IsValid() {
		evt = evt.Str("position", pos.String())
	}
	evt.Msg(message)
	if s.hook != nil {
		s.hook(v)
	}
	return v
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
