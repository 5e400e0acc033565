package bundle

import (
	"path/filepath"

	"github.com/tmc/fruitbasket/internal/plist"
	"github.com/tmc/fruitbasket/internal/system"
)

// Detection is the result of Detect.
type Detection struct {
	// Bundled reports whether the executable runs from a well-formed bundle.
	Bundled bool

	// Path is the enclosing bundle, set whenever the executable path has
	// bundle shape, even if Bundled is false.
	Path string

	// ViaMarker reports that the relaunch marker confirmed the bundle and
	// Info.plist was not parsed.
	ViaMarker bool
}

// Detect decides whether execPath runs from inside an app bundle. The
// authoritative test is a parseable Contents/Info.plist in the enclosing
// bundle whose CFBundleExecutable is the executable's file name.
//
// marker is the bundle path a parent process relaunched into. When it names
// the enclosing bundle and Info.plist exists, the plist is not parsed. Any
// other marker is ignored.
func Detect(execPath, marker string) Detection {
	exe := canonicalPath(execPath)
	root, ok := Enclosing(exe)
	if !ok {
		return Detection{}
	}
	d := Detection{Path: root}
	l := Layout{Root: root}

	if marker != "" && canonicalPath(marker) == root && system.FileExists(l.InfoPlist()) {
		d.Bundled = true
		d.ViaMarker = true
		return d
	}

	dict, err := plist.ReadFile(l.InfoPlist())
	if err != nil {
		return d
	}
	if name, _ := plist.String(dict, plist.KeyExecutable); name == filepath.Base(exe) {
		d.Bundled = true
	}
	return d
}
