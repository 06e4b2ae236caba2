package common

import (
	"io"
	"log/slog"
	"os"
)

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "info"
	}
}

// ToSlogLevel converts LogLevel to slog.Level
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Logger provides a centralized logging interface for apicheck
type Logger struct {
	*slog.Logger
	level  LogLevel
	masker *Masker
}

// logOutput is stderr so console tables on stdout stay clean when piped.
var logOutput io.Writer = os.Stderr

// NewLogger creates a new structured logger with the specified level
func NewLogger(level LogLevel) *Logger {
	masker := NewMasker()
	opts := &slog.HandlerOptions{
		Level:       level.ToSlogLevel(),
		ReplaceAttr: maskReplacer(masker),
	}
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(logOutput, opts)),
		level:  level,
		masker: masker,
	}
}

// NewJSONLogger creates a structured logger with JSON output
func NewJSONLogger(level LogLevel) *Logger {
	masker := NewMasker()
	opts := &slog.HandlerOptions{
		Level:       level.ToSlogLevel(),
		ReplaceAttr: maskReplacer(masker),
	}
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(logOutput, opts)),
		level:  level,
		masker: masker,
	}
}

// NewColorLogger creates a logger backed by ColorHandler
func NewColorLogger(level LogLevel) *Logger {
	h := NewColorHandler(logOutput, &slog.HandlerOptions{Level: level.ToSlogLevel()})
	h.SetColorEnabled(true)
	return &Logger{
		Logger: slog.New(h),
		level:  level,
		masker: h.masker,
	}
}

// maskReplacer applies the masker to string attributes of the builtin handlers.
func maskReplacer(m *Masker) func(groups []string, a slog.Attr) slog.Attr {
	return func(_ []string, a slog.Attr) slog.Attr {
		if !m.IsEnabled() {
			return a
		}
		if s, ok := attrText(a.Value); ok {
			if masked, ok := m.MaskValue(a.Key, s).(string); ok {
				return slog.String(a.Key, masked)
			}
		}
		return a
	}
}

// attrText returns the text of string and error values. Transport errors
// carry the request URL, so they are masked like strings.
func attrText(v slog.Value) (string, bool) {
	switch v.Kind() {
	case slog.KindString:
		return v.String(), true
	case slog.KindAny:
		if err, ok := v.Any().(error); ok && err != nil {
			return err.Error(), true
		}
	}
	return "", false
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// EnableMasking toggles sensitive value masking for this logger
func (l *Logger) EnableMasking(enabled bool) {
	if l.masker != nil {
		l.masker.SetEnabled(enabled)
	}
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		level:  l.level,
		masker: l.masker,
	}
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// WithRun returns a logger tagged with the id of a check run
func (l *Logger) WithRun(runID string) *Logger {
	return l.with("run_id", runID)
}

// WithEnvironment returns a logger with environment context
func (l *Logger) WithEnvironment(name string) *Logger {
	return l.with("env", name)
}

// WithRequest returns a logger with HTTP request context
func (l *Logger) WithRequest(method, url string) *Logger {
	return l.with("method", method, "url", url)
}

// Global default logger instance
var defaultLogger = NewLogger(LogLevelInfo)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}

// LogError logs an error with context
func LogError(msg string, err error, attrs ...any) {
	args := append([]any{"error", err}, attrs...)
	defaultLogger.Error(msg, args...)
}

// LogInfo logs informational message
func LogInfo(msg string, attrs ...any) {
	defaultLogger.Info(msg, attrs...)
}

// LogDebug logs debug message
func LogDebug(msg string, attrs ...any) {
	defaultLogger.Debug(msg, attrs...)
}

// LogWarn logs warning message
func LogWarn(msg string, attrs ...any) {
	defaultLogger.Warn(msg, attrs...)
}
