package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/clausejson/internal/ctxlog"
	"github.com/specialistvlad/clausejson/internal/interp"
	"github.com/specialistvlad/clausejson/internal/jsonout"
	"github.com/specialistvlad/clausejson/internal/tape"
	"github.com/tidwall/gjson"
)

// Run converts the configured document. Nothing is written unless the whole
// conversion succeeds.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "file", a.config.InputPath)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	data, err := a.read()
	if err != nil {
		return err
	}
	logger.Debug("Document read.", "bytes", len(data))

	t, err := tape.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", a.config.InputPath, err)
	}
	logger.Debug("Document tokenized.", "tokens", t.Len())

	var src jsonout.Source = t.WithEncoding(a.encoding)
	if a.settings.Interpolation {
		it, err := interp.Interpolate(ctx, t, a.encoding)
		if err != nil {
			return err
		}
		tokens := it.Tokens()
		logger.Debug("Declarations filtered.", "tokens_before", t.Len(), "tokens_after", tokens.Len())
		src = tokens
	}

	out, err := jsonout.Render(src, a.json)
	if err != nil {
		return fmt.Errorf("failed to render JSON: %w", err)
	}
	if a.config.Query != "" {
		if out, err = a.query(out); err != nil {
			return err
		}
	}

	if err := a.write(out); err != nil {
		return err
	}
	logger.Debug("App.Run method finished.", "bytes_written", len(out))
	return nil
}

func (a *App) read() ([]byte, error) {
	if a.config.InputPath == StdinPath {
		data, err := io.ReadAll(a.in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(a.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// query narrows the rendered document down to a gjson path.
func (a *App) query(out []byte) ([]byte, error) {
	res := gjson.GetBytes(out, a.config.Query)
	if !res.Exists() {
		return nil, fmt.Errorf("query %q matched nothing", a.config.Query)
	}
	raw := []byte(res.Raw)
	if a.json.Pretty {
		raw = jsonout.Indent(raw)
	}
	return raw, nil
}

func (a *App) write(out []byte) error {
	if a.config.OutputPath == "" {
		_, err := a.outW.Write(out)
		return err
	}
	if err := os.WriteFile(a.config.OutputPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
