package main

import (
	"context"
	"log/slog"
	"os"
)

type loggerCtxKey struct{}

// newLogger builds the CLI logger. Debug output from the library is only
// shown with --verbose; otherwise warnings and errors still surface.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

func getLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger)
	if !ok {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
