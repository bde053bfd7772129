// Package logging builds the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const timeFormat = "2006-01-02 15:04:05"

// Options selects the log level and an optional append-mode log file.
type Options struct {
	Level string
	File  string
	// Console overrides stderr; used by tests.
	Console io.Writer
}

var (
	mu      sync.Mutex
	logFile *os.File
)

// ParseLevel accepts zerolog level names, case-insensitive. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// Init configures the global logger and returns it. Calling Init again
// replaces the previous configuration and closes the previous log file.
func Init(opts Options) (zerolog.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return log.Logger, err
	}

	mu.Lock()
	defer mu.Unlock()

	writers := []io.Writer{consoleWriter(opts.Console)}

	closeFileLocked()
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return log.Logger, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return log.Logger, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: timeFormat,
			NoColor:    true,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().Timestamp().Int("pid", os.Getpid()).
		Logger()
	log.Logger = logger
	return logger, nil
}

// consoleWriter renders human-readable colored output on a terminal and plain
// JSON lines otherwise.
func consoleWriter(out io.Writer) io.Writer {
	if out != nil {
		return out
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
	}
	return os.Stderr
}

// Close flushes and closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
}

func closeFileLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
