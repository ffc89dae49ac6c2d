// Package logging constructs the zerolog logger that commands inject into
// the translator components. Components receive a logger value instead of
// touching a global, so tests can hand them a silent one.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/glotfill/glotfill/internal/osutil"
)

// EnvLogLevel overrides the default level when the --log-level flag is not
// given.
const EnvLogLevel = "GLOTFILL_LOG_LEVEL"

// New creates a console logger at the given level. An empty level falls
// back to GLOTFILL_LOG_LEVEL, then to info. Unparsable levels degrade to
// info rather than failing the command.
func New(level string, w io.Writer) zerolog.Logger {
	if level == "" {
		level = osutil.Env(EnvLogLevel, "info")
	}
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(logLevel).With().Timestamp().Logger()
}

// Default returns the stderr logger commands normally use.
func Default(level string) zerolog.Logger {
	return New(level, os.Stderr)
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
