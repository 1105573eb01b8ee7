// Package logging provides a zerolog-backed implementation of
// core.Logger, replacing the teacher's stdout-only DefaultLogger with
// structured, leveled output.
//
// Grounded on github.com/rs/zerolog as used in the example pack
// (itsManjeet-exp/event/bench/zerolog_test.go): a single *zerolog.Logger
// built once at startup via zerolog.New(writer).With().Timestamp().Logger().
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/df07/lightbench/pkg/core"
)

// Logger adapts a zerolog.Logger to core.Logger's single Printf method,
// so the engine and demo client can keep logging through one narrow
// interface while the concrete implementation gets structured fields.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing JSON lines to w.
func New(w io.Writer) *Logger {
	zl := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewConsole builds a Logger writing human-readable, colorized lines to
// stderr — the form the terminal demo client runs under, since its
// stdout is owned by the tcell screen.
func NewConsole() *Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	zl := zerolog.New(writer).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Printf implements core.Logger by formatting the message and emitting
// it at info level.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Errorf emits a message at error level, for failures the engine itself
// has no Logger-interface vocabulary for (e.g. config-load failures in
// the demo client).
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

var _ core.Logger = (*Logger)(nil)
