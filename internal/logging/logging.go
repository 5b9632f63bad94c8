// Package logging builds the application's zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/simonvc/ledgerbook/internal/config"
)

// New returns a JSON logger on stderr at info level, or a console logger at
// debug level with caller info when the environment is "development".
func New(c config.Config) zerolog.Logger {
	return newLogger(c, os.Stderr)
}

// NewFile is New writing to the file at path, appending. The TUI uses it so
// log lines never draw over the screen.
func NewFile(c config.Config, path string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	c.Environment = "production" // no ANSI colours in a file
	return newLogger(c, f), f, nil
}

func newLogger(c config.Config, out io.Writer) zerolog.Logger {
	log := zerolog.New(out).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()

	if c.Development() {
		log = log.
			Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().
			Caller().
			Logger()
	}

	return log
}
