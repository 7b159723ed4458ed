// Package hclconfig loads clausejson settings files written in HCL.
//
// A settings file holds plain attributes only:
//
//	format         = "utf-8"
//	duplicate_keys = "group"
//	pretty         = true
//	interpolation  = env.CLAUSEJSON_INTERPOLATE == "1"
//	log_level      = "info"
//	log_format     = "json"
//
// Expressions are evaluated with an `env` object holding the process
// environment.
package hclconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/clausejson/internal/config"
	"github.com/specialistvlad/clausejson/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	// Environ supplies the variables exposed as `env`. Defaults to os.Environ.
	Environ func() []string
}

// NewLoader creates a loader that reads the process environment.
func NewLoader() *Loader {
	return &Loader{Environ: os.Environ}
}

// fileRoot lists every attribute a settings file may set. Unknown
// attributes and blocks are rejected by the decoder.
type fileRoot struct {
	Format        hcl.Expression `hcl:"format,optional"`
	DuplicateKeys hcl.Expression `hcl:"duplicate_keys,optional"`
	Pretty        hcl.Expression `hcl:"pretty,optional"`
	Interpolation hcl.Expression `hcl:"interpolation,optional"`
	LogLevel      hcl.Expression `hcl:"log_level,optional"`
	LogFormat     hcl.Expression `hcl:"log_format,optional"`
}

// Load parses every existing file of paths in order. Later files override
// attributes set by earlier ones.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL settings loader started.", "path_count", len(paths))

	parser := hclparse.NewParser()
	evalCtx := l.evalContext()
	model := &config.Model{}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("Settings file not found, skipping.", "path", path)
				continue
			}
			return nil, fmt.Errorf("error accessing settings file %s: %w", path, err)
		}

		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode settings file %s: %w", path, diags)
		}

		layer, err := translate(ctx, &root, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("in settings file %s: %w", path, err)
		}
		model = model.Overlay(layer)
		logger.Debug("Settings file loaded.", "path", path)
	}

	return model, nil
}

// evalContext exposes the environment as an object so that a reference to
// an unset variable is reported as an error.
func (l *Loader) evalContext() *hcl.EvalContext {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	env := make(map[string]cty.Value)
	for _, e := range environ() {
		name, value, ok := strings.Cut(e, "=")
		if ok && name != "" {
			env[name] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}

func translate(ctx context.Context, root *fileRoot, evalCtx *hcl.EvalContext) (*config.Model, error) {
	m := &config.Model{}
	var err error
	if m.Format, err = stringAttr(ctx, root.Format, "format", evalCtx); err != nil {
		return nil, err
	}
	if m.DuplicateKeys, err = stringAttr(ctx, root.DuplicateKeys, "duplicate_keys", evalCtx); err != nil {
		return nil, err
	}
	if m.Pretty, err = boolAttr(ctx, root.Pretty, "pretty", evalCtx); err != nil {
		return nil, err
	}
	if m.Interpolation, err = boolAttr(ctx, root.Interpolation, "interpolation", evalCtx); err != nil {
		return nil, err
	}
	if m.LogLevel, err = stringAttr(ctx, root.LogLevel, "log_level", evalCtx); err != nil {
		return nil, err
	}
	if m.LogFormat, err = stringAttr(ctx, root.LogFormat, "log_format", evalCtx); err != nil {
		return nil, err
	}
	return m, nil
}
