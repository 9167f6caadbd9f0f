// Package shared holds setup common to the mancala sub-commands.
package shared

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger writes to stderr, as JSON for batch runs or through the console
// writer otherwise.
func SetupLogger(debug, json bool) zerolog.Logger {
	return NewLogger(os.Stderr, debug, json)
}

func NewLogger(w io.Writer, debug, json bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if json {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	} else {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
