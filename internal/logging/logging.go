// Package logging provides the structured logger the terminal core uses for
// debug-level notices about malformed input it recovers from instead of
// surfacing to the caller.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// Disabled is the default logger: it discards everything, so embedding a
// Terminal never produces uninvited output on stderr.
func Disabled() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// New builds a logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
