package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured logging tagged with the emitting component.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// New builds the process logger: console output for humans, JSON lines when
// json is set.
func New(level string, json bool) *ZerologAdapter {
	lvl := ParseLevel(level)
	if json {
		return NewZerolog(os.Stdout, lvl)
	}
	return NewConsoleLogger(lvl)
}

// ParseLevel maps a level name to zerolog. DEBUG=1 forces debug when the name
// is not recognised.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		if os.Getenv("DEBUG") == "1" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
}

// NopLogger discards everything.
type NopLogger struct{}

// Nop returns a Logger that drops every entry.
func Nop() Logger { return NopLogger{} }

// Debug discards the entry.
func (NopLogger) Debug(string, string, map[string]interface{}) {}

// Info discards the entry.
func (NopLogger) Info(string, string, map[string]interface{}) {}

// Warning discards the entry.
func (NopLogger) Warning(string, string, map[string]interface{}) {}

// Error discards the entry.
func (NopLogger) Error(string, error, map[string]interface{}) {}
