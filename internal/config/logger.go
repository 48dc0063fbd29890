package config

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// SetLevel replaces the log level after checking it parses. An empty level
// leaves the current one.
func (l *LoggingConfig) SetLevel(level string) error {
	if level == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	l.Level = level
	return nil
}

// Logger builds a zerolog.Logger writing to w. The configuration must have
// been validated.
func (l LoggingConfig) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if l.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
