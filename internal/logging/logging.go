package logging

import (
	"log"
	"os"
	"strings"
)

// Level represents logging verbosity
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled, component-tagged logging on top of the std logger
type Logger struct {
	level     Level
	component string
}

// New creates a logger for component at the given level
func New(component string, level Level) *Logger {
	return &Logger{level: level, component: component}
}

// ForComponent creates a logger whose level comes from LOG_LEVEL
func ForComponent(component string) *Logger {
	return New(component, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel maps a level name to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG", "TRACE":
		return LevelDebug
	default:
		return LevelInfo
	}
}

func (l *Logger) printf(tag, format string, args ...interface{}) {
	log.Printf("["+l.component+"] "+tag+format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		l.printf("ERROR: ", format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		l.printf("WARN: ", format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		l.printf("", format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		l.printf("DEBUG: ", format, args...)
	}
}

// Level returns the current log level
func (l *Logger) Level() Level {
	return l.level
}
