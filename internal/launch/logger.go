package launch

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tmc/fruitbasket/internal/system"
)

// Rotation defaults for file log destinations.
const (
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
)

// Logger wraps slog.Logger with fruitbasket-specific configuration.
type Logger struct {
	*slog.Logger

	file *lumberjack.Logger
}

// LogConfig selects level, format and destination.
type LogConfig struct {
	Debug bool
	JSON  bool

	// Dest is "stderr", "file:<path>" or "both:<path>".
	Dest string

	// MaxSizeMB and MaxBackups control rotation of the file destination.
	// Zero selects the defaults.
	MaxSizeMB  int
	MaxBackups int
}

// LogConfigFromEnv maps the FRUITBASKET_* logging variables to a LogConfig.
func LogConfigFromEnv(env system.Env) LogConfig {
	return LogConfig{Debug: env.Debug, JSON: env.LogJSON, Dest: env.LogDest}
}

// NewLogger creates a logger configured from the environment.
func NewLogger() *Logger {
	return NewLoggerWithConfig(LogConfigFromEnv(system.MustLoadEnv()))
}

// NewLoggerWithConfig creates a logger for cfg. File destinations are
// written through a size-rotated lumberjack writer.
func NewLoggerWithConfig(cfg LogConfig) *Logger {
	l := &Logger{}
	var writers []io.Writer

	switch {
	case strings.HasPrefix(cfg.Dest, "file:"):
		l.file = rotatingFile(strings.TrimPrefix(cfg.Dest, "file:"), cfg)
		writers = append(writers, l.file)
	case strings.HasPrefix(cfg.Dest, "both:"):
		l.file = rotatingFile(strings.TrimPrefix(cfg.Dest, "both:"), cfg)
		writers = append(writers, os.Stderr, l.file)
	default:
		writers = append(writers, os.Stderr)
	}

	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = io.MultiWriter(writers...)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	} else {
		terse := l.file == nil
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// Terminal output drops the timestamp; files keep it.
				if terse && a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{}
				}
				return a
			},
		})
	}

	l.Logger = slog.New(handler).With("component", "fruitbasket")
	return l
}

// FilePath returns the path of the log file, or "" when logging only to
// stderr.
func (l *Logger) FilePath() string {
	if l.file == nil {
		return ""
	}
	return l.file.Filename
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func rotatingFile(path string, cfg LogConfig) *lumberjack.Logger {
	size, backups := cfg.MaxSizeMB, cfg.MaxBackups
	if size <= 0 {
		size = DefaultLogMaxSizeMB
	}
	if backups <= 0 {
		backups = DefaultLogMaxBackups
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    size,
		MaxBackups: backups,
	}
}
