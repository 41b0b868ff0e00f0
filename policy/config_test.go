package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePolicy = `
handle: __sb
flags:
  functions: true
  closures: true
  overwrite_superglobals: false
whitelist:
  functions: [strlen, add]
  variables: [a, b]
blacklist:
  constants: [PHP_OS]
classes:
  Foo: Sandboxed_Foo
namespaces: [App]
aliases:
  App\Model: M
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(samplePolicy))
	require.NoError(t, err)
	assert.Equal(t, "__sb", cfg.Handle)

	s, err := cfg.NewStore()
	require.NoError(t, err)
	assert.Equal(t, "__sb", s.Handle())
	assert.True(t, s.Flag(AllowFunctions))
	assert.True(t, s.Flag(AllowClosures))
	assert.True(t, s.Flag(AllowVariables))
	assert.False(t, s.Flag(OverwriteSuperglobals))
	assert.True(t, s.CheckName(Functions, "STRLEN"))
	assert.False(t, s.CheckName(Functions, "exec"))
	assert.False(t, s.CheckName(Constants, "PHP_OS"))
	assert.Equal(t, "Sandboxed_Foo", s.DefinedClass("foo"))
	assert.True(t, s.IsDefinedNamespace("App"))
	assert.True(t, s.IsDefinedAlias(`App\Model`))
}

func TestConfigValidateAggregates(t *testing.T) {
	cfg := &Config{
		Handle:     "bad handle",
		Flags:      map[string]bool{"telepathy": true, "functions": true},
		Whitelist:  map[string][]string{"colors": {"red"}, "functions": {"ok", " "}},
		Blacklist:  map[string][]string{"shapes": {"square"}},
		Namespaces: []string{""},
	}
	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 6)
	assert.Contains(t, err.Error(), `unknown flag "telepathy"`)
	assert.Contains(t, err.Error(), `unknown category "colors"`)
	assert.Contains(t, err.Error(), `unknown category "shapes"`)
	assert.Contains(t, err.Error(), "whitelist.functions[1]: empty name")
	assert.Contains(t, err.Error(), "namespaces[0]: empty name")

	_, err = cfg.NewStore()
	require.Error(t, err)
}

func TestConfigValidateEmpty(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())
	s, err := cfg.NewStore(WithHandle("__override"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFlags(), s.Flags())
	assert.Equal(t, "__override", s.Handle())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePolicy), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"App"}, cfg.Namespaces)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read policy file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("flags: [1, 2"), 0o600))
	_, err = LoadConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse policy")
}

func TestConfigStoreOptions(t *testing.T) {
	cfg, err := ParseConfig([]byte(samplePolicy))
	require.NoError(t, err)
	opts, err := cfg.StoreOptions()
	require.NoError(t, err)

	s := NewStore(opts...)
	assert.Equal(t, "__sb", s.Handle())
	assert.True(t, s.IsAllowlisted(Functions, "strlen"))
	assert.True(t, s.IsDenylisted(Constants, "PHP_OS"))
	assert.Equal(t, "Sandboxed_Foo", s.DefinedClass("Foo"))

	_, err = (&Config{Flags: map[string]bool{"bogus": true}}).StoreOptions()
	require.Error(t, err)
}
