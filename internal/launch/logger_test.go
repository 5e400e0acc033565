package launch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tmc/fruitbasket/internal/system"
)

func TestNewLoggerWithConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l := NewLoggerWithConfig(LogConfig{Debug: true, Dest: "file:" + path})
	t.Cleanup(func() { l.Close() })

	if l.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", l.FilePath(), path)
	}
	l.Debug("bundle created", "path", "/Apps/X.app")
	l.Info("relaunching")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"bundle created", "path=/Apps/X.app", "component=fruitbasket", "relaunching", "time="} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q:\n%s", want, data)
		}
	}
}

func TestNewLoggerWithConfig_JSONLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewLoggerWithConfig(LogConfig{JSON: true, Dest: "file:" + path})
	t.Cleanup(func() { l.Close() })

	l.Debug("hidden")
	l.Warn("shown")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(string(data), `"msg":"shown"`) {
		t.Errorf("JSON output missing message: %s", data)
	}
}

func TestLogConfigFromEnv(t *testing.T) {
	cfg := LogConfigFromEnv(system.Env{Debug: true, LogJSON: true, LogDest: "both:/tmp/x.log"})
	if !cfg.Debug || !cfg.JSON || cfg.Dest != "both:/tmp/x.log" {
		t.Errorf("LogConfigFromEnv() = %+v", cfg)
	}
	if l := NewLoggerWithConfig(LogConfig{}); l.FilePath() != "" {
		t.Errorf("stderr logger has file %q", l.FilePath())
	}
}
