// Package logging builds the zerolog loggers used by drivers, sessions and
// the command line tool.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at level, with timestamps. A nil w
// writes nowhere.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = io.Discard
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Console returns a human-readable logger for terminals.
func Console(w io.Writer, level zerolog.Level) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}, level)
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel parses a level name such as "debug" or "warn". The empty
// string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}

// Redacted is the value logged in place of a secret.
const Redacted = "[redacted]"

// Secret adds key to e with the value withheld.
func Secret(e *zerolog.Event, key string) *zerolog.Event {
	return e.Str(key, Redacted)
}
