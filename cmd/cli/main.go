package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/specialistvlad/clausejson/internal/app"
	"github.com/specialistvlad/clausejson/internal/cli"
	"github.com/specialistvlad/clausejson/internal/hclconfig"
)

// main is the entrypoint for the clausejson binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		red := color.New(color.FgRed)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			red.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		red.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run holds everything main does except exiting, so it can be tested.
func run(in io.Reader, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ctx := context.Background()
	a, err := app.NewApp(ctx, in, outW, errW, appConfig, hclconfig.NewLoader())
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
