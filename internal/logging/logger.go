// Package logging provides structured logging for the Pillbox CLI.
// It uses the standard library slog with a text handler on stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Stable attribute keys used across the codebase.
const (
	KeyError      = "error"
	KeyMedicineID = "medicine_id"
	KeyTimeLabel  = "time_label"
	KeyDispatchID = "dispatch_id"
	KeyWebhook    = "webhook"
	KeyComponent  = "component"
)

var (
	defaultLogger *slog.Logger
	mu            sync.RWMutex
)

func init() {
	defaultLogger = newLogger(os.Stderr, slog.LevelInfo)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup reconfigures the package logger. Debug enables the debug level.
func Setup(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	mu.Lock()
	defaultLogger = newLogger(w, level)
	mu.Unlock()
}

// Logger returns the package-level logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// DebugLog logs at DEBUG level with the given message and attributes.
func DebugLog(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// InfoLog logs at INFO level.
func InfoLog(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// WarnLog logs at WARN level.
func WarnLog(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// ErrorLog logs at ERROR level.
func ErrorLog(msg string, args ...any) {
	Logger().Error(msg, args...)
}
