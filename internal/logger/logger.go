// Package logger provides the small logging interface shared by keybatch
// packages. Status lines meant for the user go through ui.StatusPrinter;
// this logger carries diagnostics (commands run, files touched) that are
// only interesting when KEYBATCH_DEBUG is set.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// DebugEnv is the environment variable that turns on debug output.
const DebugEnv = "KEYBATCH_DEBUG"

// envLogger writes through a *log.Logger; debug lines are dropped unless
// KEYBATCH_DEBUG is set at the time of the call.
type envLogger struct {
	prefix string
	out    *log.Logger
}

// NewEnvLogger creates a logger writing to stderr.
// The prefix is prepended to all log messages (e.g., "[keygen]" or "[agent]").
func NewEnvLogger(prefix string) Logger {
	return NewWriterLogger(os.Stderr, prefix)
}

// NewWriterLogger is NewEnvLogger with an explicit destination.
func NewWriterLogger(w io.Writer, prefix string) Logger {
	return &envLogger{prefix: prefix, out: log.New(w, "", log.LstdFlags)}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if os.Getenv(DebugEnv) != "" {
		l.emit("DEBUG: ", format, args)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	l.emit("", format, args)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	l.emit("WARN: ", format, args)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	l.emit("ERROR: ", format, args)
}

func (l *envLogger) emit(level, format string, args []interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = l.prefix + " " + level + msg
	} else {
		msg = level + msg
	}
	l.out.Print(msg)
}

type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(format string, args ...interface{}) {}
func (noopLogger) Info(format string, args ...interface{})  {}
func (noopLogger) Warn(format string, args ...interface{})  {}
func (noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for test assertions.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args) }

func (l *BufferLogger) add(level, format string, args []interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains reports whether a message at level contains substr.
func (l *BufferLogger) Contains(level, substr string) bool {
	for _, m := range l.Messages {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}

var defaultLogger = NewEnvLogger("[keybatch]")

// Default returns the package-level logger.
func Default() Logger {
	return defaultLogger
}

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) {
	defaultLogger = l
}
