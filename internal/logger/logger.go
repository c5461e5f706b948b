// Package logger builds the JSON line logger used by every component.
// Each entry carries a "ts" field rendered in the configured location.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.MessageFieldName = "msg"
}

type tsHook struct {
	loc *time.Location
}

func (h tsHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("ts", time.Now().In(h.loc).Format(time.RFC3339Nano))
}

// New returns a logger writing one JSON object per line to w.
// A nil loc means UTC.
func New(w io.Writer, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	return zerolog.New(w).Hook(tsHook{loc: loc})
}

// Default writes to stdout.
func Default(loc *time.Location) zerolog.Logger {
	return New(os.Stdout, loc)
}

// Component returns a child logger tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
