// Package logger provides structured logging for ccgate using log/slog.
//
// Stdout carries the hook verdict, so logs go to stderr or to an
// append-only debug file.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgerlanc/ccgate/internal/constants"
)

var (
	log     *slog.Logger
	once    sync.Once
	verbose bool
	logFile *os.File
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures the logger.
type Options struct {
	// Verbose enables debug-level logging
	Verbose bool
	// Output is the writer for log output (defaults to os.Stderr)
	Output io.Writer
	// FilePath, when set, appends log output to this file instead of Output
	FilePath string
	// JSON enables JSON-formatted output
	JSON bool
}

// Init initializes the global logger with the given options.
// Only the first call takes effect. A debug file that cannot be opened
// is reported and logging falls back to Output.
func Init(opts Options) error {
	var initErr error
	once.Do(func() {
		verbose = opts.Verbose

		output := opts.Output
		if output == nil {
			output = os.Stderr
		}

		if opts.FilePath != "" {
			f, err := openLogFile(opts.FilePath)
			if err != nil {
				initErr = err
			} else {
				logFile = f
				output = f
			}
		}

		level := slog.LevelError
		if opts.Verbose || logFile != nil {
			level = slog.LevelDebug
		}

		handlerOpts := &slog.HandlerOptions{Level: level}

		var handler slog.Handler
		if opts.JSON {
			handler = slog.NewJSONHandler(output, handlerOpts)
		} else {
			handler = slog.NewTextHandler(output, handlerOpts)
		}

		log = slog.New(handler)
	})
	return initErr
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		return nil, fmt.Errorf("failed to create debug log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return f, nil
}

// Close closes the debug log file, if any. Later log calls are dropped.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	log = nil
	return err
}

// Reset resets the logger for testing purposes.
func Reset() {
	Close()
	once = sync.Once{}
	log = nil
	verbose = false
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verbose
}

// Logger returns the global logger, or a discarding logger before Init.
func Logger() *slog.Logger {
	if log == nil {
		return discard
	}
	return log
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	if log != nil {
		log.Debug(msg, args...)
	}
}

// Info logs at info level.
func Info(msg string, args ...any) {
	if log != nil {
		log.Info(msg, args...)
	}
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	if log != nil {
		log.Warn(msg, args...)
	}
}

// Error logs at error level.
func Error(msg string, args ...any) {
	if log != nil {
		log.Error(msg, args...)
	}
}

// With returns a logger with additional context attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}
