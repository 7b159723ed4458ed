package cli

import (
	"bytes"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--duplicate-keys")
}

func TestParse_NoInputPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	_, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "clausejson [options] FILE")
}

func TestParse_OnlyExplicitFlagsOverride(t *testing.T) {
	cfg, shouldExit, err := Parse([]string{"-c", "a.hcl", "--pretty", "-k", "group", "input.txt"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "input.txt", cfg.InputPath)
	assert.Equal(t, []string{"a.hcl"}, cfg.ConfigPaths)

	o := cfg.Overrides
	require.NotNil(t, o.Pretty)
	assert.True(t, *o.Pretty)
	require.NotNil(t, o.DuplicateKeys)
	assert.Equal(t, "group", *o.DuplicateKeys)
	assert.Nil(t, o.Format, "defaults must not mask the settings file")
	assert.Nil(t, o.Interpolation)
	assert.Nil(t, o.LogLevel)
	assert.Nil(t, o.LogFormat)
}

func TestParse_AllFlags(t *testing.T) {
	args := []string{
		"--format", "utf-8",
		"--interpolation",
		"--query", "a.b",
		"--out", "out.json",
		"--config", "one.hcl",
		"--config", "two.hcl",
		"--log-level", "debug",
		"--log-format", "json",
		"doc.txt",
	}
	cfg, _, err := Parse(args, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "doc.txt", cfg.InputPath)
	assert.Equal(t, "out.json", cfg.OutputPath)
	assert.Equal(t, "a.b", cfg.Query)
	assert.Equal(t, []string{"one.hcl", "two.hcl"}, cfg.ConfigPaths)
	assert.Equal(t, "utf-8", *cfg.Overrides.Format)
	assert.True(t, *cfg.Overrides.Interpolation)
	assert.Equal(t, "debug", *cfg.Overrides.LogLevel)
	assert.Equal(t, "json", *cfg.Overrides.LogFormat)
}

func TestParse_DefaultConfigPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only honored on linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, _, err := Parse([]string{"doc.txt"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "clausejson", "config.hcl")}, cfg.ConfigPaths)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{
			name:    "unknown flag",
			args:    []string{"--this-is-not-a-valid-flag", "doc.txt"},
			wantMsg: "unknown flag: --this-is-not-a-valid-flag",
		},
		{
			name:    "two inputs",
			args:    []string{"a.txt", "b.txt"},
			wantMsg: "expected a single input file, got 2",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
