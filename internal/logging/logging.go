// Package logging builds the program's zerolog logger: human-readable lines on the console and,
// optionally, JSON lines in a rotating file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Debug bool

	// File enables the JSON log file; empty means console only.
	File       string
	MaxSizeMB  int
	MaxBackups int

	// NoColor turns off ANSI colours on the console.
	NoColor bool
}

// New returns a logger writing to console, plus Options.File if set.  The returned closer
// releases the log file and must be called before exiting.  An error means the log file's
// directory couldn't be created.
func New(console io.Writer, opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.TimeOnly,
			NoColor:    opts.NoColor,
		},
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		// lumberjack creates the file lazily; make sure the directory is there
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("logging: couldn't create log directory for %s: %w", opts.File, err)
		}

		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			LocalTime:  true,
		}
		writers = append(writers, rotating)
		closer = rotating
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
