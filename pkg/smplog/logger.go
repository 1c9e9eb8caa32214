// Package smplog wraps zerolog the way the teacher's pkg/reporting
// does, so encoders, the harness, and the cmd/smp_c CLI all log through
// the same leveled, structured interface.
package smplog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging verbosity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format is a logging output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a new Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger provides leveled, structured logging.
type Logger struct {
	logger zerolog.Logger
}

// New builds a Logger from cfg, defaulting Output to os.Stderr (so
// stdout stays free for a solve subcommand's matching output) and
// Level to info when unset or unrecognized.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	output := cfg.Output
	if cfg.Format == FormatText {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(output).With().Timestamp().Logger()
	zlog = zlog.Level(parseLevel(cfg.Level))
	return &Logger{logger: zlog}
}

func parseLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) event(lvl zerolog.Level) *zerolog.Event {
	switch lvl {
	case zerolog.DebugLevel:
		return l.logger.Debug()
	case zerolog.WarnLevel:
		return l.logger.Warn()
	case zerolog.ErrorLevel:
		return l.logger.Error()
	case zerolog.FatalLevel:
		return l.logger.Fatal()
	default:
		return l.logger.Info()
	}
}

func (l *Logger) log(lvl zerolog.Level, msg string, fields ...interface{}) {
	event := l.event(lvl)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}

// Debug logs msg at debug level with alternating key/value fields.
func (l *Logger) Debug(msg string, fields ...interface{}) { l.log(zerolog.DebugLevel, msg, fields...) }

// Info logs msg at info level with alternating key/value fields.
func (l *Logger) Info(msg string, fields ...interface{}) { l.log(zerolog.InfoLevel, msg, fields...) }

// Warn logs msg at warn level with alternating key/value fields.
func (l *Logger) Warn(msg string, fields ...interface{}) { l.log(zerolog.WarnLevel, msg, fields...) }

// Error logs msg at error level with alternating key/value fields.
func (l *Logger) Error(msg string, fields ...interface{}) { l.log(zerolog.ErrorLevel, msg, fields...) }

// Fatal logs msg at fatal level and exits the process.
func (l *Logger) Fatal(msg string, fields ...interface{}) { l.log(zerolog.FatalLevel, msg, fields...) }

// WithField returns a child logger with an additional field attached
// to every subsequent entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithFields returns a child logger with additional fields attached to
// every subsequent entry.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}
