package system

import (
	"os"
	"testing"
)

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Env
		wantErr bool
	}{
		{
			name: "defaults",
			want: Env{Launch: LaunchAuto, LogDest: "stderr"},
		},
		{
			name: "all set",
			env: map[string]string{
				EnvDebug:        "true",
				EnvNoRelaunch:   "1",
				EnvLaunch:       "Direct",
				EnvInstallDir:   "/tmp/apps",
				EnvBundleMarker: "/tmp/apps/X.app",
				EnvLogDest:      "file:/tmp/x.log",
				EnvLogJSON:      "1",
			},
			want: Env{
				Debug:      true,
				NoRelaunch: true,
				Launch:     LaunchDirect,
				InstallDir: "/tmp/apps",
				Bundle:     "/tmp/apps/X.app",
				LogDest:    "file:/tmp/x.log",
				LogJSON:    true,
			},
		},
		{
			name:    "unknown launch mode",
			env:     map[string]string{EnvLaunch: "teleport"},
			wantErr: true,
		},
		{
			name:    "bad bool",
			env:     map[string]string{EnvDebug: "maybe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := LoadEnv()
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadEnv() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("LoadEnv() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// clearEnv unsets every fruitbasket variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range AllEnvVars() {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestMustLoadEnvFallsBack(t *testing.T) {
	t.Setenv(EnvLaunch, "bogus")
	env := MustLoadEnv()
	if env.Launch != LaunchAuto {
		t.Errorf("Launch = %q, want %q", env.Launch, LaunchAuto)
	}
}

func TestMarkerEnv(t *testing.T) {
	if got := MarkerEnv("/a/B.app"); got != "FRUITBASKET_BUNDLE=/a/B.app" {
		t.Errorf("MarkerEnv = %q", got)
	}
}
