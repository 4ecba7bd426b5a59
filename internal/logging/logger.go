// Package logging provides the shared leveled logger.
//
// Everything goes through one charmbracelet/log logger. It writes to stderr
// until Initialize points it at a file, which callers must do before taking
// over the terminal screen.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu       sync.Mutex
	logger   = newLogger(os.Stderr)
	file     *os.File
	filePath string
)

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "twin",
	})
	l.SetLevel(log.WarnLevel)
	return l
}

// Initialize redirects log output to the file at path, creating its
// directory when needed.
func Initialize(path string, level log.Level) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		_ = file.Close()
	}
	file = f
	filePath = path
	logger.SetOutput(f)
	logger.SetLevel(level)
	return nil
}

// SetOutput sends log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// SetLevel sets the minimum level that is written.
func SetLevel(level log.Level) {
	logger.SetLevel(level)
}

// ParseLevel accepts debug, info, warn and error (any case).
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning", "":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.WarnLevel, fmt.Errorf("unknown log level %q", s)
}

// Debug logs a debug message with key/value pairs.
func Debug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message with key/value pairs.
func Info(msg string, keyvals ...any) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning with key/value pairs.
func Warn(msg string, keyvals ...any) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error with key/value pairs.
func Error(msg string, keyvals ...any) {
	logger.Error(msg, keyvals...)
}

// WithError logs err under context, if err is not nil.
func WithError(err error, context string) {
	if err != nil {
		logger.Error(context, "err", err)
	}
}

// Close closes the log file, if any, and returns output to stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(os.Stderr)
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	filePath = ""
	return err
}

// GetLogPath returns the current log file path, or "" when logging to stderr.
func GetLogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return filePath
}
