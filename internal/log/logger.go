// Package log configures the zerolog logger shared by the CLI and its components.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stderr)
	NoColor bool      // force plain output even on a terminal
}

var (
	mu   sync.Mutex
	base = New(Config{})
)

// New builds a console logger from cfg without touching the global one.
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}

	console := zerolog.ConsoleWriter{
		Out:        writer,
		NoColor:    cfg.NoColor || !ColorEnabled(writer),
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
	}
	return zerolog.New(console).Level(level)
}

// Configure replaces the global logger.
func Configure(cfg Config) {
	l := New(cfg)
	mu.Lock()
	base = l
	mu.Unlock()
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

// ColorEnabled reports whether w is a terminal and NO_COLOR is unset.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
