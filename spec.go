package fruitbasket

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tmc/fruitbasket/internal/bundle"
)

// ExecutableMode selects how the running executable is placed in
// Contents/MacOS.
type ExecutableMode = bundle.ExecMode

const (
	// Copy copies the executable. This is the default.
	Copy = bundle.ExecCopy
	// Symlink links to the original executable.
	Symlink = bundle.ExecSymlink
	// Hardlink hard-links the original executable. Both files must be on
	// the same volume.
	Hardlink = bundle.ExecHardlink
)

// InstallDir is where the bundle is written. The zero value is the user's
// ~/Applications.
type InstallDir struct {
	kind bundle.LocationKind
	path string
}

var (
	// InstallUserApplications is ~/Applications.
	InstallUserApplications = InstallDir{kind: bundle.UserApplications}
	// InstallTemp is a per-identifier directory under the system temp dir.
	InstallTemp = InstallDir{kind: bundle.Temp}
	// InstallSystemApplications is /Applications.
	InstallSystemApplications = InstallDir{kind: bundle.SystemApplications}
)

// InstallCustom installs into path.
func InstallCustom(path string) InstallDir {
	return InstallDir{kind: bundle.Custom, path: path}
}

func (d InstallDir) String() string {
	if d.kind == bundle.Custom {
		return d.path
	}
	return d.kind.String()
}

func (d InstallDir) location() bundle.Location {
	return bundle.Location{Kind: d.kind, Path: d.path}
}

// ParseInstallDir reads the FRUITBASKET_INSTALL_DIR syntax: "user", "temp",
// "system", or a directory path.
func ParseInstallDir(s string) (InstallDir, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user", bundle.UserApplications.String():
		return InstallUserApplications, nil
	case "temp", "tmp":
		return InstallTemp, nil
	case "system", bundle.SystemApplications.String():
		return InstallSystemApplications, nil
	}
	if !filepath.IsAbs(s) && !strings.HasPrefix(s, ".") {
		return InstallDir{}, fmt.Errorf("install dir %q: want user, temp, system or a path", s)
	}
	return InstallCustom(s), nil
}

// Spec describes the bundle the trampoline builds. It is filled in once,
// before EnsureBundled, and not changed afterwards.
type Spec struct {
	// Name is the bundle name (<Name>.app, CFBundleName). Defaults to the
	// executable's base name.
	Name string

	// Executable is the file name in Contents/MacOS. Defaults to Name.
	Executable string

	// Identifier is the reverse-DNS CFBundleIdentifier. Inferred from the
	// main module path when empty.
	Identifier string

	// Version defaults to 1.0.0.
	Version string

	// Icon is a path to an icon file copied into Resources.
	Icon string

	InstallDir InstallDir

	// Resources are files, directories or doublestar patterns copied into
	// Contents/Resources.
	Resources []string

	// PlistKeys are extra Info.plist entries. Keys the bundle derives
	// itself (name, identifier, executable, icon, version) are ignored.
	PlistKeys map[string]any

	// PlistRaw are OpenStep plist fragments merged into Info.plist, e.g.
	//
	//	CFBundleURLTypes = ( { CFBundleURLName = "x"; CFBundleURLSchemes = ( "x" ); } );
	PlistRaw []string

	// Retina declares NSHighResolutionCapable. NewTrampoline turns it on.
	Retina bool

	ExecutableMode ExecutableMode
}

func (s *Spec) config(debug bool) *bundle.Config {
	return &bundle.Config{
		Name:       s.Name,
		Executable: s.Executable,
		Identifier: s.Identifier,
		Version:    s.Version,
		Icon:       s.Icon,
		Resources:  s.Resources,
		PlistKeys:  s.PlistKeys,
		PlistRaw:   s.PlistRaw,
		Retina:     s.Retina,
		ExecMode:   s.ExecutableMode,
		Debug:      debug,
	}
}
