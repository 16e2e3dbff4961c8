package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is what portal components log through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config selects level, format and destination.
type Config struct {
	// Level is debug, info, warn or error. Unknown values mean info.
	Level string
	// Format is json (default) or text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// Service, when set, is stamped on every entry as "service".
	Service string
}

// DefaultConfig is the configuration of the process default logger
// before SetDefault is called.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

// level is shared by every logger built by New, so SetLevel reaches
// loggers already handed out to components.
var level = new(slog.LevelVar)

var levelNames = []struct {
	name  string
	level slog.Level
}{
	{"debug", slog.LevelDebug},
	{"info", slog.LevelInfo},
	{"warn", slog.LevelWarn},
	{"error", slog.LevelError},
}

type slogLogger struct {
	sl *slog.Logger
}

// New builds a logger whose handler redacts credentials and masks
// email addresses before anything is written.
func New(cfg Config) (Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(out, opts)
	case "text", "console":
		h = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	level.Set(parseLevel(cfg.Level))

	sl := slog.New(h)
	if cfg.Service != "" {
		sl = sl.With("service", cfg.Service)
	}
	return &slogLogger{sl: sl}, nil
}

// Nop discards everything.
func Nop() Logger {
	return &slogLogger{sl: slog.New(slog.DiscardHandler)}
}

// SetLevel changes the level of every logger built by New.
// The config watcher calls it when log.level changes on disk.
func SetLevel(name string) {
	level.Set(parseLevel(name))
}

// GetLevel returns the current level name.
func GetLevel() string {
	current := level.Level()
	for _, l := range levelNames {
		if l.level == current {
			return l.name
		}
	}
	return "info"
}

func parseLevel(name string) slog.Level {
	name = strings.ToLower(name)
	if name == "warning" {
		name = "warn"
	}
	for _, l := range levelNames {
		if l.name == name {
			return l.level
		}
	}
	return slog.LevelInfo
}

func (l *slogLogger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.sl.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.sl.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{sl: l.sl.With(args...)}
}

// Slog returns the underlying *slog.Logger for libraries that want one.
// Loggers not built by this package get slog.Default().
func Slog(l Logger) *slog.Logger {
	if s, ok := l.(*slogLogger); ok {
		return s.sl
	}
	return slog.Default()
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the process default and installs it as the slog
// default, so libraries logging through slog are redacted too.
func SetDefault(l Logger) {
	if s, ok := l.(*slogLogger); ok {
		defaultLogger.Store(s)
		slog.SetDefault(s.sl)
	}
}

// Default returns the process default logger.
func Default() Logger {
	return defaultLogger.Load()
}
