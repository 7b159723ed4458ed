package app

import (
	"errors"

	"github.com/specialistvlad/clausejson/internal/config"
)

// StdinPath makes the app read the document from its input reader.
const StdinPath = "-"

// Config holds what an App needs besides the settings layers it loads
// itself.
type Config struct {
	InputPath  string // document to convert, or StdinPath
	OutputPath string // empty writes to the app's output writer
	Query      string // optional gjson path applied to the rendered JSON

	// ConfigPaths are settings files, applied in order. Missing files are
	// skipped.
	ConfigPaths []string
	// Overrides holds settings given explicitly on the command line. They
	// win over every settings file.
	Overrides *config.Model
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("an input file is required; use '-' to read from stdin")
	}
	if cfg.Overrides == nil {
		cfg.Overrides = &config.Model{}
	}
	return &cfg, nil
}
