package main

import (
	"io"
	"log/slog"
	"strings"

	"pipecheck/internal/core/config"
)

// newLogger builds the process logger. The returned LevelVar lets a config
// reload change verbosity without rebuilding handlers.
func newLogger(w io.Writer, cfg config.Log, verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := new(slog.LevelVar)
	applyLogLevel(level, cfg.Level, verbose)

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), level
}

func applyLogLevel(level *slog.LevelVar, name string, verbose bool) {
	if verbose {
		level.Set(slog.LevelDebug)
		return
	}
	parsed, err := config.ParseLevel(name)
	if err != nil {
		slog.Warn("ignoring invalid log level", "level", name, "error", err)
		return
	}
	level.Set(parsed)
}
