package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tmc/fruitbasket/internal/plist"
)

// makeBundle lays out root/Contents/MacOS/<exe> and, when dict is non-nil,
// an Info.plist.
func makeBundle(t *testing.T, root, exe string, dict map[string]any) string {
	t.Helper()
	l := Layout{Root: root}
	if err := os.MkdirAll(l.MacOS(), 0755); err != nil {
		t.Fatal(err)
	}
	execPath := l.Executable(exe)
	if err := os.WriteFile(execPath, []byte("bin"), 0755); err != nil {
		t.Fatal(err)
	}
	if dict != nil {
		if err := plist.WriteFile(l.InfoPlist(), dict); err != nil {
			t.Fatal(err)
		}
	}
	return execPath
}

func TestDetect(t *testing.T) {
	tempDir := t.TempDir()

	good := makeBundle(t, filepath.Join(tempDir, "Good.app"), "good",
		map[string]any{plist.KeyExecutable: "good"})
	noPlist := makeBundle(t, filepath.Join(tempDir, "Shape.app"), "shape", nil)
	wrongExe := makeBundle(t, filepath.Join(tempDir, "Wrong.app"), "wrong",
		map[string]any{plist.KeyExecutable: "other"})
	loose := filepath.Join(tempDir, "loose")
	os.WriteFile(loose, []byte("bin"), 0755)
	notApp := makeBundle(t, filepath.Join(tempDir, "Folder"), "x",
		map[string]any{plist.KeyExecutable: "x"})

	tests := []struct {
		name       string
		exec       string
		marker     string
		wantBundle bool
		wantMarker bool
	}{
		{name: "well formed", exec: good, wantBundle: true},
		{name: "marker fast path", exec: good, marker: filepath.Join(tempDir, "Good.app"), wantBundle: true, wantMarker: true},
		{name: "foreign marker ignored", exec: good, marker: filepath.Join(tempDir, "Other.app"), wantBundle: true},
		{name: "path shape only", exec: noPlist},
		{name: "path shape with marker but no plist", exec: noPlist, marker: filepath.Join(tempDir, "Shape.app")},
		{name: "executable mismatch", exec: wrongExe},
		{name: "not in bundle", exec: loose},
		{name: "not in bundle with marker", exec: loose, marker: filepath.Join(tempDir, "Good.app")},
		{name: "directory without .app", exec: notApp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detect(tt.exec, tt.marker)
			if d.Bundled != tt.wantBundle {
				t.Errorf("Detect().Bundled = %v, want %v", d.Bundled, tt.wantBundle)
			}
			if d.ViaMarker != tt.wantMarker {
				t.Errorf("Detect().ViaMarker = %v, want %v", d.ViaMarker, tt.wantMarker)
			}
		})
	}
}

func TestEnclosing(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/Applications/X.app/Contents/MacOS/x", "/Applications/X.app", true},
		{"/tmp/a/My App.app/Contents/MacOS/My App", "/tmp/a/My App.app", true},
		{"/usr/local/bin/x", "", false},
		{"/Applications/X.app/Contents/Resources/x", "", false},
		{"/Applications/X/Contents/MacOS/x", "", false},
		{"/.app/Contents/MacOS/x", "", false},
	}
	for _, tt := range tests {
		got, ok := Enclosing(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Enclosing(%q) = %q, %v, want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDetectFollowsBundleSymlinkDir(t *testing.T) {
	tempDir := t.TempDir()
	real := filepath.Join(tempDir, "real")
	exe := makeBundle(t, filepath.Join(real, "App.app"), "app",
		map[string]any{plist.KeyExecutable: "app"})
	link := filepath.Join(tempDir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	rel, _ := filepath.Rel(real, exe)

	d := Detect(filepath.Join(link, rel), filepath.Join(real, "App.app"))
	if !d.Bundled || !d.ViaMarker {
		t.Errorf("Detect through symlinked dir = %+v", d)
	}
}
