package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheckValid(t *testing.T) {
	out, _, err := run(t, "check", "testdata/valid.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "ok testdata/valid.yaml")
	assert.Contains(t, out, "handle __app")
	assert.Contains(t, out, "closures")
}

func TestCheckInvalid(t *testing.T) {
	out, _, err := run(t, "check", "testdata/valid.yaml", "testdata/invalid.yaml")
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, err.Error(), "1 of 2 files invalid")

	assert.Contains(t, out, "FAIL testdata/invalid.yaml")
	assert.Contains(t, out, "teleport")
	assert.Contains(t, out, "spells")
	assert.Contains(t, out, "whitelist.functions[0]: empty name")
	assert.Equal(t, 3, strings.Count(out, "  - "))
}

func TestCheckMissingFile(t *testing.T) {
	out, _, err := run(t, "check", "testdata/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, out, "failed to read policy file")
}

func TestCheckRequiresFile(t *testing.T) {
	_, _, err := run(t, "check")
	require.Error(t, err)
}

func TestCheckVerbose(t *testing.T) {
	_, stderr, err := run(t, "check", "-v", "testdata/valid.yaml")
	require.NoError(t, err)
	assert.Contains(t, stderr, "whitelisted")
}

func TestFlags(t *testing.T) {
	out, _, err := run(t, "flags")
	require.NoError(t, err)
	assert.Contains(t, out, "FLAG")
	assert.Regexp(t, `variables\s+true`, out)
	assert.Regexp(t, `closures\s+false`, out)
	assert.Contains(t, out, "CATEGORIES")
	assert.Contains(t, out, "magic_constants")
}

func TestCodes(t *testing.T) {
	out, _, err := run(t, "codes")
	require.NoError(t, err)
	assert.Regexp(t, `E1002\s+escape\s+shell execution backticks`, out)
	assert.Regexp(t, `E5007\s+structural\s+sandbox access`, out)
}
