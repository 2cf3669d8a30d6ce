package logpile

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Internal diagnostic tracing for target plumbing. Disabled by default so the
// library is silent; set LOGPILE_DIAG to any value, or call
// EnableDiagnostics, to see what the targets are doing on stderr. The logger
// is swapped atomically so enabling diagnostics is safe while sends are in
// flight.

type diagLogger struct {
	logger atomic.Pointer[zerolog.Logger]
}

var diag = newDiagLogger()

func newDiagLogger() *diagLogger {
	d := &diagLogger{}
	if os.Getenv("LOGPILE_DIAG") != "" {
		d.store(consoleDiagnostics())
	} else {
		d.store(zerolog.New(io.Discard))
	}
	return d
}

func (d *diagLogger) store(logger zerolog.Logger) {
	d.logger.Store(&logger)
}

func (d *diagLogger) Debug() *zerolog.Event {
	return d.logger.Load().Debug()
}

// EnableDiagnostics routes internal tracing to w at debug level.
func EnableDiagnostics(w io.Writer) {
	diag.store(zerolog.New(w).With().Timestamp().Logger().Level(zerolog.DebugLevel))
}

// DisableDiagnostics silences internal tracing again.
func DisableDiagnostics() {
	diag.store(zerolog.New(io.Discard))
}

func consoleDiagnostics() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.DebugLevel)
}
