package fruitbasket

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tmc/fruitbasket/internal/launch"
)

var (
	loggerMu sync.Mutex
	pkgLog   *slog.Logger
)

// Logger returns the package logger. Until CreateLogger or SetLogger is
// called it is configured from FRUITBASKET_DEBUG, FRUITBASKET_LOG_DEST and
// FRUITBASKET_LOG_JSON.
func Logger() *slog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if pkgLog == nil {
		pkgLog = launch.NewLogger().Logger
	}
	return pkgLog
}

// SetLogger replaces the package logger.
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	pkgLog = l
	loggerMu.Unlock()
}

type logDirKind int

const (
	logDirHome logDirKind = iota
	logDirTemp
	logDirCustom
)

// LogDir selects the directory CreateLogger writes to.
type LogDir struct {
	kind logDirKind
	path string
}

var (
	// LogDirHome is ~/Library/Logs.
	LogDirHome = LogDir{kind: logDirHome}
	// LogDirTemp is the system temp directory.
	LogDirTemp = LogDir{kind: logDirTemp}
)

// LogDirCustom is dir.
func LogDirCustom(dir string) LogDir {
	return LogDir{kind: logDirCustom, path: dir}
}

func (d LogDir) resolve() (string, error) {
	switch d.kind {
	case logDirTemp:
		return os.TempDir(), nil
	case logDirCustom:
		if d.path == "" {
			return "", fmt.Errorf("custom log directory is empty")
		}
		return d.path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Logs"), nil
}

// CreateLogger logs to stderr and to filename in dir, rotating the file at
// maxSizeMB and keeping backups old files. The logger becomes both the
// package logger and slog's default. It returns the log file path.
//
// App bundles started by LaunchServices have no terminal; the file is where
// their output ends up.
func CreateLogger(filename string, dir LogDir, maxSizeMB, backups int, debug bool) (string, error) {
	base, err := dir.resolve()
	if err != nil {
		return "", fmt.Errorf("resolve log directory: %w", err)
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(base, filename)

	l := launch.NewLoggerWithConfig(launch.LogConfig{
		Debug:      debug,
		Dest:       "both:" + path,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: backups,
	})
	SetLogger(l.Logger)
	slog.SetDefault(l.Logger)
	return l.FilePath(), nil
}
