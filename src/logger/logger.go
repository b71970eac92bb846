package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	baseMu sync.RWMutex
	base   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}).
		With().Timestamp().Logger()
)

// -----------------------------------------------------------------------------

// Setup configures the process-wide log sink. level is one of DEBUG, INFO,
// WARNING, ERROR; format is "console" or "json".
func Setup(level, format string, out io.Writer) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	if out == nil {
		out = os.Stdout
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	baseMu.Lock()
	base = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	baseMu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "", "INFO":
		return zerolog.InfoLevel, nil
	case "WARNING", "WARN":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("invalid log level: %s", level)
}

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality
type Logger struct {
	name string
	zl   zerolog.Logger
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance tagged with a component name
func NewLogger(name string) *Logger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return &Logger{
		name: name,
		zl:   base.With().Str("component", name).Logger(),
	}
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.zl.WithLevel(zerolog.FatalLevel).Msgf(format, args...)
	os.Exit(1)
}
