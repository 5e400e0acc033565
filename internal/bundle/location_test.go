package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tmc/fruitbasket/internal/system"
)

func TestLocationDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name    string
		loc     Location
		want    string
		wantErr bool
	}{
		{name: "zero value is user applications", loc: Location{}, want: filepath.Join(home, "Applications")},
		{name: "system", loc: Location{Kind: SystemApplications}, want: "/Applications"},
		{name: "temp", loc: Location{Kind: Temp}, want: filepath.Join(os.TempDir(), "com.example.app")},
		{name: "custom", loc: Location{Kind: Custom, Path: "/opt/apps"}, want: "/opt/apps"},
		{name: "custom without path", loc: Location{Kind: Custom}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.loc.Dir("com.example.app")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Dir() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Dir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveLocation(t *testing.T) {
	t.Run("creates preferred", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "apps")
		r, err := ResolveLocation(Location{Kind: Custom, Path: dir}, "com.example.app")
		if err != nil {
			t.Fatal(err)
		}
		if r.Dir != dir || r.FellBack {
			t.Errorf("ResolveLocation() = %+v", r)
		}
		if !system.DirExists(dir) {
			t.Error("preferred dir not created")
		}
	})

	t.Run("falls back on permission error", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root ignores directory permissions")
		}
		tmp := t.TempDir()
		t.Setenv("TMPDIR", filepath.Join(tmp, "tmp"))
		locked := filepath.Join(tmp, "locked")
		if err := os.Mkdir(locked, 0555); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Chmod(locked, 0755) })

		r, err := ResolveLocation(Location{Kind: Custom, Path: locked}, "com.example.app")
		if err != nil {
			t.Fatalf("ResolveLocation() = %v", err)
		}
		if !r.FellBack {
			t.Error("expected fallback")
		}
		if want := filepath.Join(tmp, "tmp", "com.example.app"); r.Dir != want {
			t.Errorf("Dir = %q, want %q", r.Dir, want)
		}
		if !system.IsPermissionError(r.PreferredErr) {
			t.Errorf("PreferredErr = %v", r.PreferredErr)
		}
	})

	t.Run("non-permission error is returned", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		os.WriteFile(file, nil, 0644)
		if _, err := ResolveLocation(Location{Kind: Custom, Path: file}, "com.example.app"); err == nil {
			t.Error("expected error for file path")
		}
	})
}
