// Package bundle creates, inspects and recognizes macOS app bundles.
//
// A bundle produced here has the minimal layout LaunchServices needs:
//
//	<Name>.app/Contents/Info.plist
//	<Name>.app/Contents/MacOS/<Executable>
//	<Name>.app/Contents/Resources/...
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/fruitbasket/internal/plist"
	"github.com/tmc/fruitbasket/internal/system"
)

// DefaultVersion is used when Config.Version is empty.
const DefaultVersion = "1.0.0"

// ExecMode selects how the running executable is placed in Contents/MacOS.
type ExecMode int

const (
	// ExecCopy copies the executable. The bundle survives the original
	// being rebuilt or removed.
	ExecCopy ExecMode = iota
	// ExecSymlink links to the original executable.
	ExecSymlink
	// ExecHardlink hard links to the original executable. Source and bundle
	// must be on the same filesystem.
	ExecHardlink
)

func (m ExecMode) String() string {
	switch m {
	case ExecCopy:
		return "copy"
	case ExecSymlink:
		return "symlink"
	case ExecHardlink:
		return "hardlink"
	}
	return fmt.Sprintf("ExecMode(%d)", int(m))
}

// ParseExecMode maps "copy", "symlink" and "hardlink" to an ExecMode. The
// empty string is ExecCopy.
func ParseExecMode(s string) (ExecMode, error) {
	switch strings.ToLower(s) {
	case "", "copy":
		return ExecCopy, nil
	case "symlink":
		return ExecSymlink, nil
	case "hardlink":
		return ExecHardlink, nil
	}
	return ExecCopy, fmt.Errorf("unknown executable mode %q", s)
}

// Config describes the bundle to build around an executable.
type Config struct {
	// Name is the bundle name, shown in the Dock and used for <Name>.app.
	// Defaults to the executable's base name.
	Name string

	// Executable is the file name inside Contents/MacOS. Defaults to Name.
	Executable string

	// Identifier is the CFBundleIdentifier. Inferred from the main module
	// path when empty.
	Identifier string

	// Version defaults to DefaultVersion.
	Version string

	// Icon is a path to an .icns (or image) file copied into Resources.
	Icon string

	// Resources are files, directories or doublestar patterns copied into
	// Resources.
	Resources []string

	PlistKeys map[string]any
	PlistRaw  []string
	Retina    bool
	ExecMode  ExecMode

	Debug bool
}

// Bundle is an app bundle at a fixed path built from a source executable.
type Bundle struct {
	// Path is the full path to the .app directory.
	Path string

	Config *Config

	execPath   string
	name       string
	execName   string
	identifier string
	version    string
}

// New resolves the defaults in config and returns the bundle that would be
// built for execPath inside dir. Nothing is written.
func New(execPath, dir string, config *Config) (*Bundle, error) {
	if execPath == "" {
		return nil, fmt.Errorf("executable path cannot be empty")
	}
	if dir == "" {
		return nil, fmt.Errorf("install directory cannot be empty")
	}
	if config == nil {
		config = &Config{}
	}

	name := config.Name
	if name == "" {
		name = system.ExtractAppNameFromPath(execPath)
	}
	name = system.LimitAppNameLength(system.CleanAppName(name), 251)
	if name == "" {
		return nil, fmt.Errorf("app name %q has no usable characters", config.Name)
	}

	execName := config.Executable
	if execName == "" {
		execName = name
	}
	if execName != filepath.Base(execName) || execName == "." || execName == ".." {
		return nil, fmt.Errorf("executable name %q must be a plain file name", execName)
	}

	identifier := config.Identifier
	if identifier == "" {
		identifier = system.InferBundleID(name)
	}
	if err := system.ValidateBundleID(identifier); err != nil {
		return nil, err
	}

	version := config.Version
	if version == "" {
		version = DefaultVersion
	}

	return &Bundle{
		Path:       filepath.Join(dir, name+".app"),
		Config:     config,
		execPath:   execPath,
		name:       name,
		execName:   execName,
		identifier: identifier,
		version:    version,
	}, nil
}

// Name returns the cleaned bundle name.
func (b *Bundle) Name() string { return b.name }

// Identifier returns the bundle identifier.
func (b *Bundle) Identifier() string { return b.identifier }

// Version returns the bundle version.
func (b *Bundle) Version() string { return b.version }

// ExecName returns the executable's file name inside Contents/MacOS.
func (b *Bundle) ExecName() string { return b.execName }

// Layout returns the paths inside the bundle.
func (b *Bundle) Layout() Layout { return Layout{Root: b.Path} }

// ExecutablePath returns the path of the executable inside the bundle.
func (b *Bundle) ExecutablePath() string {
	return b.Layout().Executable(b.execName)
}

// Info returns the Info.plist description of the bundle.
func (b *Bundle) Info() plist.Info {
	info := plist.Info{
		Name:       b.name,
		Identifier: b.identifier,
		Executable: b.execName,
		Version:    b.version,
		Retina:     b.Config.Retina,
		Keys:       b.Config.PlistKeys,
		Raw:        b.Config.PlistRaw,
	}
	if b.Config.Icon != "" {
		info.IconFile = filepath.Base(b.Config.Icon)
	}
	return info
}

// MinimumSystemVersion returns the LSMinimumSystemVersion the bundle will
// declare.
func (b *Bundle) MinimumSystemVersion() (system.MacOSVersion, error) {
	dict, err := b.Info().Dict()
	if err != nil {
		return system.MacOSVersion{}, err
	}
	return system.ParseMacOSVersion(plist.MinimumSystemVersion(dict))
}

// Encloses reports whether path lies inside the bundle directory.
func (b *Bundle) Encloses(path string) bool {
	root := canonicalPath(b.Path)
	p := canonicalPath(path)
	return p == root || strings.HasPrefix(p, root+string(filepath.Separator))
}

// Ensure makes the bundle present and current. An existing bundle is kept
// when IsUpToDate; otherwise it is removed and Create runs. created reports
// whether anything was written.
func (b *Bundle) Ensure() (created bool, err error) {
	if system.DirExists(b.Path) {
		if b.IsUpToDate() {
			b.debugf("reusing existing bundle at %s (binary unchanged)", b.Path)
			return false, nil
		}
		b.debugf("bundle at %s is stale, recreating", b.Path)
		if err := os.RemoveAll(b.Path); err != nil {
			return false, fmt.Errorf("failed to remove outdated bundle: %w", err)
		}
	}
	return true, b.Create()
}

// Create writes the bundle tree. Once the directories exist every remaining
// step runs and all failures are returned together. A partially written
// bundle is left in place.
func (b *Bundle) Create() error {
	info := b.Info()
	dict, err := info.Dict()
	if err != nil {
		return err
	}

	l := b.Layout()
	for _, dir := range []string{l.MacOS(), l.Resources()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	var errs []error
	if err := b.installExecutable(); err != nil {
		errs = append(errs, fmt.Errorf("install executable: %w", err))
	}
	if b.Config.Icon != "" {
		if err := CopyIcon(b.Config.Icon, l.Resources()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(b.Config.Resources) > 0 {
		if err := CopyResources(b.Config.Resources, l.Resources()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := plist.WriteFile(l.InfoPlist(), dict); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		b.debugf("created bundle at %s", b.Path)
	}
	return errors.Join(errs...)
}

func (b *Bundle) installExecutable() error {
	dst := b.ExecutablePath()
	switch b.Config.ExecMode {
	case ExecSymlink:
		return system.LinkFile(b.execPath, dst, true)
	case ExecHardlink:
		return system.LinkFile(b.execPath, dst, false)
	}
	if err := system.CopyFile(b.execPath, dst); err != nil {
		return err
	}
	return os.Chmod(dst, 0755)
}

// IsUpToDate reports whether the bundle on disk has a readable Info.plist
// for the same identifier and executable, and an executable with the same
// SHA-256 as the source.
func (b *Bundle) IsUpToDate() bool {
	dict, err := plist.ReadFile(b.Layout().InfoPlist())
	if err != nil {
		b.debugf("bundle Info.plist unreadable: %v", err)
		return false
	}
	if id, _ := plist.String(dict, plist.KeyIdentifier); id != b.identifier {
		b.debugf("bundle identifier %q does not match %q", id, b.identifier)
		return false
	}
	if exe, _ := plist.String(dict, plist.KeyExecutable); exe != b.execName {
		b.debugf("bundle executable %q does not match %q", exe, b.execName)
		return false
	}

	if !system.SameContents(b.execPath, b.ExecutablePath()) {
		b.debugf("bundle executable %s differs from %s", b.ExecutablePath(), b.execPath)
		return false
	}
	return true
}

// Validate checks the bundle structure and that Info.plist names an
// executable that exists.
func (b *Bundle) Validate() error {
	_, err := Validate(b.Path)
	return err
}

func (b *Bundle) debugf(format string, args ...any) {
	if b.Config.Debug {
		fmt.Fprintf(os.Stderr, "fruitbasket: "+format+"\n", args...)
	}
}

// Validate checks that path is a well-formed bundle and returns its
// Info.plist.
func Validate(path string) (map[string]any, error) {
	if !system.DirExists(path) {
		return nil, fmt.Errorf("bundle does not exist: %s", path)
	}
	l := Layout{Root: path}
	for _, p := range []string{l.Contents(), l.MacOS()} {
		if !system.DirExists(p) {
			return nil, fmt.Errorf("required bundle component missing: %s", p)
		}
	}
	dict, err := plist.ReadFile(l.InfoPlist())
	if err != nil {
		return nil, fmt.Errorf("required bundle component unreadable: %w", err)
	}
	exe, ok := plist.String(dict, plist.KeyExecutable)
	if !ok || exe == "" {
		return dict, fmt.Errorf("%s: %s missing", l.InfoPlist(), plist.KeyExecutable)
	}
	if !system.FileExists(l.Executable(exe)) {
		return dict, fmt.Errorf("bundle executable missing: %s", l.Executable(exe))
	}
	return dict, nil
}
