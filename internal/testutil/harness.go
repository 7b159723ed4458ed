// Package testutil holds helpers shared by the package tests: a thread-safe
// log buffer and a harness that runs the whole app against files in a
// temporary directory.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/clausejson/internal/app"
	"github.com/specialistvlad/clausejson/internal/hclconfig"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes files, keyed by slash-separated relative path, into a
// fresh temporary directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// HarnessResult holds the outcome of one app run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunApp writes files into a temporary directory and runs the app on the
// file named input with debug logging. Paths in cfg that are relative are
// resolved against that directory. Settings files are only read when cfg
// names them.
func RunApp(t *testing.T, files map[string]string, input string, cfg app.Config) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	abs := func(p string) string {
		if p == "" || p == app.StdinPath || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, filepath.FromSlash(p))
	}

	cfg.InputPath = abs(input)
	cfg.OutputPath = abs(cfg.OutputPath)
	paths := make([]string, len(cfg.ConfigPaths))
	for i, p := range cfg.ConfigPaths {
		paths[i] = abs(p)
	}
	cfg.ConfigPaths = paths
	if cfg.Overrides == nil || cfg.Overrides.LogLevel == nil {
		debug := "debug"
		overrides := cfg.Overrides.Overlay(nil)
		overrides.LogLevel = &debug
		cfg.Overrides = overrides
	}

	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	result := &HarnessResult{}

	a, err := app.NewApp(context.Background(), strings.NewReader(""), out, logs, appConfig, hclconfig.NewLoader())
	if err == nil {
		result.App = a
		err = a.Run(context.Background())
	}

	if os.Getenv("CLAUSEJSON_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	result.Output = out.String()
	result.LogOutput = logs.String()
	result.Err = err
	return result
}
