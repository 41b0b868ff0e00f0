package policy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Config is the file representation of a sandbox policy.
//
//	handle: __sandbox_app
//	flags:
//	  functions: true
//	  closures: false
//	whitelist:
//	  functions: [strlen, add]
//	blacklist:
//	  variables: [password]
//	classes:
//	  Foo: Sandboxed_Foo
type Config struct {
	Handle     string              `yaml:"handle"`
	Flags      map[string]bool     `yaml:"flags"`
	Whitelist  map[string][]string `yaml:"whitelist"`
	Blacklist  map[string][]string `yaml:"blacklist"`
	Classes    map[string]string   `yaml:"classes"`
	Namespaces []string            `yaml:"namespaces"`
	Aliases    map[string]string   `yaml:"aliases"`
}

// LoadConfig reads, parses and validates the policy file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %q: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("policy file %q: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses and validates a YAML policy document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("policy validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Handle != "" && strings.ContainsAny(c.Handle, " \t\n$") {
		result = multierror.Append(result, fmt.Errorf("handle %q is not a valid variable name", c.Handle))
	}
	for _, name := range sortedMapKeys(c.Flags) {
		if _, err := ParseFlag(name); err != nil {
			result = multierror.Append(result, fmt.Errorf("flags: %w", err))
		}
	}
	for _, section := range []struct {
		name  string
		lists map[string][]string
	}{
		{"whitelist", c.Whitelist},
		{"blacklist", c.Blacklist},
	} {
		for _, cat := range sortedMapKeys(section.lists) {
			if _, err := ParseCategory(cat); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", section.name, err))
				continue
			}
			for i, name := range section.lists[cat] {
				if strings.TrimSpace(name) == "" {
					result = multierror.Append(result, fmt.Errorf("%s.%s[%d]: empty name", section.name, cat, i))
				}
			}
		}
	}
	for _, name := range sortedMapKeys(c.Classes) {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(c.Classes[name]) == "" {
			result = multierror.Append(result, fmt.Errorf("classes: empty name in %q: %q", name, c.Classes[name]))
		}
	}
	for i, name := range c.Namespaces {
		if strings.TrimSpace(name) == "" {
			result = multierror.Append(result, fmt.Errorf("namespaces[%d]: empty name", i))
		}
	}
	for _, name := range sortedMapKeys(c.Aliases) {
		if strings.TrimSpace(name) == "" {
			result = multierror.Append(result, fmt.Errorf("aliases: empty name"))
		}
	}
	return result.ErrorOrNil()
}

// StoreOptions converts the configuration into store options. The
// configuration must be valid.
func (c *Config) StoreOptions() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return append(c.settings(), c.populate), nil
}

// NewStore builds a store from the configuration. Additional options are
// applied after the configured flags and handle but before the lists and
// tables are filled, so a logger passed here sees every entry.
func (c *Config) NewStore(opts ...Option) (*Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := NewStore(append(c.settings(), opts...)...)
	c.populate(s)
	return s, nil
}

func (c *Config) settings() []Option {
	flags := DefaultFlags()
	for _, name := range sortedMapKeys(c.Flags) {
		f, _ := ParseFlag(name)
		flags = flags.Set(f, c.Flags[name])
	}
	return []Option{WithFlags(flags), WithHandle(c.Handle)}
}

func (c *Config) populate(s *Store) {
	for _, cat := range sortedMapKeys(c.Whitelist) {
		category, _ := ParseCategory(cat)
		s.Whitelist(category, c.Whitelist[cat]...)
	}
	for _, cat := range sortedMapKeys(c.Blacklist) {
		category, _ := ParseCategory(cat)
		s.Blacklist(category, c.Blacklist[cat]...)
	}
	for _, name := range sortedMapKeys(c.Classes) {
		s.DefineClass(name, c.Classes[name])
	}
	for _, name := range c.Namespaces {
		s.DefineNamespace(name)
	}
	for _, name := range sortedMapKeys(c.Aliases) {
		s.DefineAlias(name, c.Aliases[name])
	}
}

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
