// Package logging provides structured logging for xskio, backed by
// logrus: a Config/NewLogger constructor, a process-wide default, and
// contextual child loggers tagging the NIC interface, queue, and
// operation.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLevel is the four-level scheme exposed to configuration, mapped
// onto logrus's finer-grained levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Config holds logging configuration.
type Config struct {
	Level  LogLevel
	Format string // "text" or "json"
	Output io.Writer
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{Level: LevelInfo, Format: "text", Output: os.Stderr}
}

// Logger wraps a logrus.Logger, implementing iface.Logger.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger builds a Logger from config, falling back to
// DefaultConfig for a nil config or unset fields.
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(output)
	l.SetLevel(config.Level.logrusLevel())
	if config.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// Default returns the process-wide default logger, creating it on
// first use.
func Default() *Logger {
	mu.RLock()
	if defaultLogger != nil {
		defer mu.RUnlock()
		return defaultLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// WithIfname returns a child logger tagging every entry with the
// bound NIC interface name.
func (l *Logger) WithIfname(ifname string) *Logger {
	return &Logger{entry: l.entry.WithField("ifname", ifname)}
}

// WithQueue returns a child logger additionally tagging the NIC queue
// index.
func (l *Logger) WithQueue(queue uint32) *Logger {
	return &Logger{entry: l.entry.WithField("queue", queue)}
}

// WithOp returns a child logger tagging the driver/adapter operation
// in progress.
func (l *Logger) WithOp(op string) *Logger {
	return &Logger{entry: l.entry.WithField("op", op)}
}

// WithError returns a child logger carrying an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Package-level convenience functions over the default logger.
func Debugf(format string, args ...interface{}) { Default().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { Default().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Default().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Default().Errorf(format, args...) }
