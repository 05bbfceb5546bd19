package types

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents the logging level
type LogLevel int

// Log levels
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelNone // Disables all logging
)

// ParseLogLevel maps a configuration string to a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warning", "warn":
		return LogLevelWarning, nil
	case "error":
		return LogLevelError, nil
	case "none", "off":
		return LogLevelNone, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger provides leveled logging for the engine. A logger derived with With
// tags every message with the component that wrote it.
type Logger struct {
	debugLogger   *log.Logger
	infoLogger    *log.Logger
	warningLogger *log.Logger
	errorLogger   *log.Logger
	currentLevel  LogLevel
	component     string
}

// Global logger instance
var GlobalLogger *Logger

// InitLogger creates a new logger with the specified level
func InitLogger(level LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	return &Logger{
		debugLogger:   log.New(output, "DEBUG: ", log.Ldate|log.Ltime),
		infoLogger:    log.New(output, "INFO: ", log.Ldate|log.Ltime),
		warningLogger: log.New(output, "WARNING: ", log.Ldate|log.Ltime),
		errorLogger:   log.New(output, "ERROR: ", log.Ldate|log.Ltime),
		currentLevel:  level,
	}
}

// NopLogger returns a logger that discards everything
func NopLogger() *Logger {
	return InitLogger(LogLevelNone, io.Discard)
}

// With returns a logger writing to the same outputs at the same level whose
// messages start with "[component] "
func (l *Logger) With(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

// Component returns the tag set by With, or ""
func (l *Logger) Component() string {
	return l.component
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.currentLevel = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	return l.currentLevel
}

// Enabled reports whether messages at level are written
func (l *Logger) Enabled(level LogLevel) bool {
	return level != LogLevelNone && l.currentLevel <= level
}

func (l *Logger) logf(level LogLevel, out *log.Logger, format string, v []interface{}) {
	if !l.Enabled(level) {
		return
	}
	if l.component != "" {
		format = "[" + l.component + "] " + format
	}
	out.Printf(format, v...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(LogLevelDebug, l.debugLogger, format, v)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(LogLevelInfo, l.infoLogger, format, v)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, v ...interface{}) {
	l.logf(LogLevelWarning, l.warningLogger, format, v)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(LogLevelError, l.errorLogger, format, v)
}

// Initialize the global logger with default settings
func init() {
	GlobalLogger = InitLogger(LogLevelInfo, os.Stderr)
}
