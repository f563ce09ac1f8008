// Package logger wraps charmbracelet/log with the verbosity/quiet-mode
// semantics the CLI's commands expect: a single global logger, a parseable
// Level, and a "quiet" flag that suppresses everything but errors.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Global logger instance
var globalLogger *Logger

func init() {
	globalLogger = New(os.Stderr, LevelInfo, false)
}

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LogLevel aliases Level under the name the CLI's root command uses when
// wiring the --log-level flag to the global logger.
type LogLevel = Level

// FatalLevel sits above LevelError; logger.Init accepts it as a
// --log-level=fatal setting that suppresses everything but a fatal message.
// No Logger method emits at this level — commands call os.Exit themselves
// after logging an Error.
const FatalLevel Level = LevelError + 1

// Aliases matching the naming convention used when configuring the global
// logger from parsed CLI flags.
const (
	DebugLevel = LevelDebug
	InfoLevel  = LevelInfo
	WarnLevel  = LevelWarn
	ErrorLevel = LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) charmLevel() charmlog.Level {
	switch l {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelInfo:
		return charmlog.InfoLevel
	case LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}

// ParseLevel parses a string into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// Logger provides structured, leveled logging on top of charmbracelet/log.
// It keeps the printf-style call shape the rest of the codebase uses
// (Info("created %s", name)) rather than charm's own keyval-pair style,
// since every existing call site already passes a format string.
type Logger struct {
	charm *charmlog.Logger
	level Level
	quiet bool
}

// New creates a new Logger instance writing to writer.
func New(writer io.Writer, level Level, quiet bool) *Logger {
	charm := charmlog.NewWithOptions(writer, charmlog.Options{
		Level:           level.charmLevel(),
		ReportTimestamp: true,
	})
	return &Logger{charm: charm, level: level, quiet: quiet}
}

// Debug logs a debug-level message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level <= LevelDebug && !l.quiet {
		l.charm.Debug(fmt.Sprintf(format, args...))
	}
}

// Info logs an info-level message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level <= LevelInfo && !l.quiet {
		l.charm.Info(fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning-level message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level <= LevelWarn && !l.quiet {
		l.charm.Warn(fmt.Sprintf(format, args...))
	}
}

// Error logs an error-level message (not suppressed by quiet mode)
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.charm.Error(fmt.Sprintf(format, args...))
	}
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level Level) {
	l.level = level
	l.charm.SetLevel(level.charmLevel())
}

// SetQuiet enables or disables quiet mode
func (l *Logger) SetQuiet(quiet bool) {
	l.quiet = quiet
}

// With returns a child Logger whose charm logger carries the given
// structured key/value fields, used where a call site wants attached
// context (e.g. package name, task name) rather than baking it into the
// format string.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{charm: l.charm.With(keyvals...), level: l.level, quiet: l.quiet}
}

// Get returns the global logger instance
func Get() *Logger {
	return globalLogger
}

// SetGlobal sets the global logger instance
func SetGlobal(l *Logger) {
	globalLogger = l
}

// logKV emits msg at msgLevel on the global logger using charm's native
// key/value style, honoring the same level/quiet gating as the printf-style
// methods above.
func (l *Logger) logKV(msgLevel Level, msg string, keyvals ...interface{}) {
	if l.level > msgLevel {
		return
	}
	if l.quiet && msgLevel != LevelError {
		return
	}
	switch msgLevel {
	case LevelDebug:
		l.charm.Debug(msg, keyvals...)
	case LevelInfo:
		l.charm.Info(msg, keyvals...)
	case LevelWarn:
		l.charm.Warn(msg, keyvals...)
	default:
		l.charm.Error(msg, keyvals...)
	}
}

// Info logs an info-level message on the global logger using charm's
// key/value style, e.g. Info("built package", "name", pkg.Name). This is
// the package-level entry point most CLI commands call; Logger's own Info
// method keeps the printf-style shape for callers holding a *Logger.
func Info(msg string, keyvals ...interface{}) { globalLogger.logKV(LevelInfo, msg, keyvals...) }

// Error logs an error-level message on the global logger (see Info).
func Error(msg string, keyvals ...interface{}) { globalLogger.logKV(LevelError, msg, keyvals...) }

// Warn logs a warning-level message on the global logger (see Info).
func Warn(msg string, keyvals ...interface{}) { globalLogger.logKV(LevelWarn, msg, keyvals...) }

// Debug logs a debug-level message on the global logger (see Info).
func Debug(msg string, keyvals ...interface{}) { globalLogger.logKV(LevelDebug, msg, keyvals...) }

// Config configures the global logger via Init. It mirrors the shape the
// CLI's root command builds from its --log-level/--log-file/--verbose
// flags plus the project's working directory and build version.
type Config struct {
	Level      LogLevel
	Output     io.Writer
	TimeFormat string
	Prefix     string
	LogFile    string
	CurrentDir string
	Version    string
}

// Init builds the global logger from cfg. When cfg.LogFile is set, log
// output is appended to that file (resolved relative to CurrentDir if not
// absolute) instead of cfg.Output, creating the parent directory as needed.
func Init(cfg *Config) error {
	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}

	if cfg.LogFile != "" {
		path := cfg.LogFile
		if !filepath.IsAbs(path) && cfg.CurrentDir != "" {
			path = filepath.Join(cfg.CurrentDir, path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writer = f
	}

	opts := charmlog.Options{
		Level:           cfg.Level.charmLevel(),
		ReportTimestamp: true,
	}
	if cfg.TimeFormat != "" {
		opts.TimeFormat = cfg.TimeFormat
	}
	if cfg.Prefix != "" {
		opts.Prefix = cfg.Prefix
	}

	l := &Logger{charm: charmlog.NewWithOptions(writer, opts), level: cfg.Level}
	if cfg.Version != "" {
		l = l.With("version", cfg.Version)
	}
	SetGlobal(l)
	return nil
}

// Infof is a convenience method for logging info messages
func (l *Logger) Infof(format string, args ...interface{}) { l.Info(format, args...) }

// Debugf is a convenience method for logging debug messages
func (l *Logger) Debugf(format string, args ...interface{}) { l.Debug(format, args...) }

// Warnf is a convenience method for logging warning messages
func (l *Logger) Warnf(format string, args ...interface{}) { l.Warn(format, args...) }

// Errorf is a convenience method for logging error messages
func (l *Logger) Errorf(format string, args ...interface{}) { l.Error(format, args...) }
