package config

import "context"

// Loader reads settings files of one format into the format-agnostic model.
type Loader interface {
	// Load reads every existing file in paths, in order, and returns the
	// merged settings. Paths that do not exist are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
