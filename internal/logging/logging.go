// Package logging builds the zerolog loggers used across the tool: a
// console logger on stderr and, per release, a rotating debug log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"liftcup/internal/util"
)

// Options control logger construction.
type Options struct {
	Debug   bool      // Console at debug instead of info
	Quiet   bool      // No console output (the TUI owns the terminal)
	NoLog   bool      // No per-release log file
	Dir     string    // Log file directory
	Console io.Writer // Defaults to os.Stderr
}

// filtered drops records below min before they reach w.
func filtered(w io.Writer, min zerolog.Level) zerolog.LevelWriter {
	return &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: w},
		Level:  min,
	}
}

func (o Options) consoleWriter() zerolog.LevelWriter {
	if o.Quiet {
		return zerolog.LevelWriterAdapter{Writer: io.Discard}
	}
	out := o.Console
	if out == nil {
		out = os.Stderr
	}
	min := zerolog.InfoLevel
	if o.Debug {
		min = zerolog.DebugLevel
	}
	return filtered(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}, min)
}

// New returns the console logger and installs it as the global logger.
func New(o Options) zerolog.Logger {
	l := zerolog.New(o.consoleWriter()).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	log.Logger = l
	return l
}

// FileName is the log file name for a release on the given day.
func FileName(file string, day time.Time) string {
	return fmt.Sprintf("liftcup.%s.%s.log", day.Format("2006-01-02"), filepath.Base(file))
}

// ForRelease returns a logger for one release carrying run_id and file
// fields. Unless NoLog is set, every record at debug and above is also
// written to <Dir>/<FileName>. The returned close func flushes the file.
func ForRelease(o Options, file string, now time.Time) (zerolog.Logger, func() error, error) {
	writers := []io.Writer{o.consoleWriter()}
	closeFn := func() error { return nil }

	if !o.NoLog && o.Dir != "" {
		if err := util.EnsureDir(o.Dir); err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("create log dir: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   filepath.Join(o.Dir, FileName(file, now)),
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
		writers = append(writers, filtered(lj, zerolog.DebugLevel))
		closeFn = lj.Close
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Str("file", filepath.Base(file)).
		Logger()
	return l, closeFn, nil
}
