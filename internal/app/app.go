package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/clausejson/internal/config"
	"github.com/specialistvlad/clausejson/internal/jsonout"
	"github.com/specialistvlad/clausejson/internal/tape"
)

// saveExtensions are game save formats. Those may be binary, and melting
// them into text is not supported, so interpolation is refused for them.
var saveExtensions = []string{"eu4", "ck3", "rome", "hoi4", "v3", "eu5"}

// App converts one document per Run.
type App struct {
	in       io.Reader
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	settings config.Settings
	encoding tape.Encoding
	json     jsonout.Options
}

// NewApp loads the settings files through loader, applies the command line
// overrides and validates the result. Logs go to logW; JSON goes to outW
// unless the config names an output file.
func NewApp(ctx context.Context, in io.Reader, outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	fileModel, err := loader.Load(ctx, cfg.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings := fileModel.Overlay(cfg.Overrides).Resolve(config.Defaults())

	level, err := parseLogLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	if err := checkLogFormat(settings.LogFormat); err != nil {
		return nil, err
	}
	enc, err := tape.ParseEncoding(settings.Format)
	if err != nil {
		return nil, err
	}
	mode, err := jsonout.ParseDuplicateKeyMode(settings.DuplicateKeys)
	if err != nil {
		return nil, err
	}
	if settings.Interpolation {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(cfg.InputPath), "."))
		if slices.Contains(saveExtensions, ext) {
			return nil, fmt.Errorf("--interpolation can only be used with generic files, not .%s saves", ext)
		}
	}

	logger := newLogger(level, settings.LogFormat, logW)
	logger.Debug("Settings resolved.",
		"format", enc.String(),
		"duplicate_keys", mode.String(),
		"pretty", settings.Pretty,
		"interpolation", settings.Interpolation,
	)

	return &App{
		in:       in,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		settings: settings,
		encoding: enc,
		json:     jsonout.Options{DuplicateKeys: mode, Pretty: settings.Pretty},
	}, nil
}

// Settings returns the resolved settings. This is primarily for testing.
func (a *App) Settings() config.Settings {
	return a.settings
}
