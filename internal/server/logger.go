package server

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value any
}

// ZerologLogger writes Fields through a zerolog.Logger
type ZerologLogger struct {
	logger zerolog.Logger
}

func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// NewDefaultLogger logs human-readable lines to stdout
func NewDefaultLogger() *ZerologLogger {
	return NewConsoleLogger(os.Stdout, zerolog.InfoLevel)
}

func NewConsoleLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05.000"}
	return NewZerologLogger(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

func (l *ZerologLogger) Debug(msg string, fields ...Field) {
	l.log(l.logger.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields ...Field) {
	l.log(l.logger.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields ...Field) {
	l.log(l.logger.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields ...Field) {
	l.log(l.logger.Error(), msg, fields)
}

func (l *ZerologLogger) log(e *zerolog.Event, msg string, fields []Field) {
	// Disabled levels hand back a nil event
	if e == nil {
		return
	}
	for _, f := range fields {
		switch v := sanitizeValue(f.Value).(type) {
		case error:
			e = e.AnErr(f.Key, v)
		case time.Duration:
			e = e.Dur(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}

// Long values such as header contents are cut before they reach the log
func sanitizeValue(v any) any {
	if s, ok := v.(string); ok && len(s) > 100 {
		return s[:100] + "...[truncated]"
	}
	return v
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (NullLogger) Debug(msg string, fields ...Field) {}
func (NullLogger) Info(msg string, fields ...Field)  {}
func (NullLogger) Warn(msg string, fields ...Field)  {}
func (NullLogger) Error(msg string, fields ...Field) {}
