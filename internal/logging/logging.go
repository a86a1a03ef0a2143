// Package logging builds the zerolog logger used by the command line tools.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where logs go and how much is written.
type Config struct {
	// Verbosity is the number of -v flags given.
	Verbosity int
	// File, when set, receives a copy of every log line and is rotated by size.
	File string
	// NoColor disables ANSI colours on the console writer.
	NoColor bool
}

// LevelFor maps a -v count to a log level.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// New returns a logger writing human readable lines to console. The
// returned closer releases the log file, if any.
func New(console io.Writer, cfg Config) (zerolog.Logger, io.Closer) {
	var out io.Writer = zerolog.ConsoleWriter{
		Out:        console,
		NoColor:    cfg.NoColor,
		TimeFormat: time.TimeOnly,
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
		}
		out = zerolog.MultiLevelWriter(out, lj)
		closer = lj
	}

	logger := zerolog.New(out).
		Level(LevelFor(cfg.Verbosity)).
		With().
		Timestamp().
		Logger()
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
