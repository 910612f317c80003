// Package logger builds the process-wide slog logger and carries it through contexts.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Output formats understood by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type ctxKey struct{}

// Config controls the level and encoding of log output.
type Config struct {
	Level  slog.Level
	Format string
}

// NewConfig builds a Config from textual level and format values.
// Unknown levels fall back to warn so that normal runs stay quiet on stderr.
func NewConfig(level, format string) Config {
	cfg := Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
	}

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		cfg.Level = slog.LevelDebug
	case "info":
		cfg.Level = slog.LevelInfo
	case "error":
		cfg.Level = slog.LevelError
	}

	if strings.EqualFold(strings.TrimSpace(format), FormatJSON) {
		cfg.Format = FormatJSON
	}

	return cfg
}

// New creates a logger writing to w.
func New(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// AddToContext returns a copy of ctx carrying log.
func AddToContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored in ctx, or slog.Default when there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}
