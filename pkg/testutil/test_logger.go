package testutil

import (
	"testing"

	"github.com/rs/zerolog"
)

// NewTestLogger returns a zerolog.Logger that forwards log lines to t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = zerolog.NewTestWriter(t)
		w.NoColor = true
	})).Level(zerolog.DebugLevel)
}
