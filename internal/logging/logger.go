// Package logging provides the small structured-ish logger used by every
// long-lived component of the runtime (manager, receiver, twin runners).
package logging

import (
	"log"
	"os"
)

// Logger wraps the standard library logger with a fixed component prefix
// and leveled helper methods, so call sites read as "what" rather than
// "how to format it".
type Logger struct {
	std *log.Logger
}

// New creates a Logger that prefixes every line with "[name] ".
func New(name string) *Logger {
	return &Logger{
		std: log.New(os.Stderr, "["+name+"] ", log.LstdFlags),
	}
}

// Error logs a message together with the error that caused it. No-op if
// err is nil, so call sites can do `log.Error("loading shell", err)`
// unconditionally after an `if err != nil` guard.
func (l *Logger) Error(context string, err error) {
	if err == nil {
		return
	}
	l.std.Printf("ERROR: %s: %v", context, err)
}

// Warn logs a warning — a condition the system recovered from by
// dropping data rather than failing the caller.
func (l *Logger) Warn(format string, args ...any) {
	l.std.Printf("WARN: "+format, args...)
}

// Info logs a normal operational message.
func (l *Logger) Info(format string, args ...any) {
	l.std.Printf("INFO: "+format, args...)
}

// Debug logs fine-grained tracing, e.g. per-message dispatch.
func (l *Logger) Debug(format string, args ...any) {
	l.std.Printf("DEBUG: "+format, args...)
}
