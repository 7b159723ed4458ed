package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specialistvlad/clausejson/internal/app"
	"github.com/specialistvlad/clausejson/internal/config"
	flag "github.com/spf13/pflag"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// DefaultConfigPath returns the settings file used when no --config flag is
// given, or "" when the user config directory is unknown.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "clausejson", "config.hcl")
}

// Parse processes command-line arguments. It returns the app config, whether
// the program should exit cleanly right away (help was requested), or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	fs := flag.NewFlagSet("clausejson", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.SortFlags = false

	fs.Usage = func() {
		fmt.Fprint(output, `
clausejson - convert Clausewitz script files to JSON.

Usage:
  clausejson [options] FILE

Arguments:
  FILE
    Script file to convert. '-' reads from stdin.

Options:
`)
		fs.PrintDefaults()
	}

	format := fs.StringP("format", "f", config.DefaultFormat, "Encoding of the input: 'utf-8' or 'windows-1252'.")
	dupKeys := fs.StringP("duplicate-keys", "k", config.DefaultDuplicateKeys, "Duplicate key handling: 'preserve', 'group' or 'key-value-pairs'.")
	pretty := fs.Bool("pretty", false, "Pretty-print the JSON output.")
	interpolation := fs.Bool("interpolation", false, "Resolve @variables and @[expressions] and drop their declarations.")
	query := fs.StringP("query", "q", "", "Only print the part of the output matching this gjson path.")
	out := fs.StringP("out", "o", "", "Write the JSON to this file instead of stdout.")
	configPaths := fs.StringArrayP("config", "c", nil, "HCL settings file; repeatable. Defaults to the user config directory.")
	logLevel := fs.String("log-level", config.DefaultLogLevel, "Logging level: 'debug', 'info', 'warn' or 'error'.")
	logFormat := fs.String("log-format", config.DefaultLogFormat, "Log output format: 'text' or 'json'.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	switch fs.NArg() {
	case 0:
		slog.Debug("No input file provided, printing usage and exiting.")
		fs.Usage()
		return nil, true, nil
	case 1:
	default:
		return nil, false, usageError("expected a single input file, got %d", fs.NArg())
	}

	// Only flags given explicitly override the settings file.
	overrides := &config.Model{}
	if fs.Changed("format") {
		overrides.Format = format
	}
	if fs.Changed("duplicate-keys") {
		overrides.DuplicateKeys = dupKeys
	}
	if fs.Changed("pretty") {
		overrides.Pretty = pretty
	}
	if fs.Changed("interpolation") {
		overrides.Interpolation = interpolation
	}
	if fs.Changed("log-level") {
		overrides.LogLevel = logLevel
	}
	if fs.Changed("log-format") {
		overrides.LogFormat = logFormat
	}

	paths := *configPaths
	if len(paths) == 0 {
		if p := DefaultConfigPath(); p != "" {
			paths = []string{p}
		}
	}

	cfg, err := app.NewConfig(app.Config{
		InputPath:   fs.Arg(0),
		OutputPath:  *out,
		Query:       *query,
		ConfigPaths: paths,
		Overrides:   overrides,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "input", cfg.InputPath, "settings_files", len(cfg.ConfigPaths))
	return cfg, false, nil
}
