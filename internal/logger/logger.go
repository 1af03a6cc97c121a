package logger

import (
	"sync"
)

// Log levels accepted in config (log_level) and on the command line.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the process-wide logger.
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger configured with the provided level.
// The first call initializes the logger; subsequent calls ignore the level
// and return the already initialized instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}

// OrNop returns l, or a logger that discards everything when l is nil.
// Components take an optional logger so tests can pass nil.
func OrNop(l *Logger) *Logger {
	if l != nil {
		return l
	}
	return Nop()
}
