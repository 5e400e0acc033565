package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmc/fruitbasket/internal/system"
)

// LocationKind selects where bundles are installed.
type LocationKind int

const (
	// UserApplications is ~/Applications.
	UserApplications LocationKind = iota
	// Temp is a per-identifier directory under os.TempDir.
	Temp
	// SystemApplications is /Applications.
	SystemApplications
	// Custom is a caller supplied directory.
	Custom
)

func (k LocationKind) String() string {
	switch k {
	case UserApplications:
		return "user-applications"
	case Temp:
		return "temp"
	case SystemApplications:
		return "system-applications"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("LocationKind(%d)", int(k))
}

// Location is an install location request.
type Location struct {
	Kind LocationKind
	// Path is used for Custom.
	Path string
}

// Resolved is the directory chosen by ResolveLocation.
type Resolved struct {
	Dir string

	// FellBack reports that the preferred directory was not writable and
	// Dir is the temp fallback.
	FellBack bool

	// Preferred is the directory that was tried first.
	Preferred string

	// PreferredErr is why Preferred was rejected when FellBack is set.
	PreferredErr error
}

// Dir returns the directory for l. Temp directories are namespaced by
// identifier so apps that share a name do not collide.
func (l Location) Dir(identifier string) (string, error) {
	switch l.Kind {
	case Temp:
		return TempDir(identifier), nil
	case SystemApplications:
		return "/Applications", nil
	case Custom:
		if l.Path == "" {
			return "", fmt.Errorf("custom install location requires a path")
		}
		return filepath.Abs(l.Path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, "Applications"), nil
}

// TempDir is the temp install directory for identifier.
func TempDir(identifier string) string {
	return filepath.Join(os.TempDir(), identifier)
}

// ResolveLocation returns a writable install directory for l, creating it if
// needed. When the preferred directory fails with a permission error the
// temp directory for identifier is used instead. Other errors, and a
// failing fallback, are returned.
func ResolveLocation(l Location, identifier string) (Resolved, error) {
	preferred, err := l.Dir(identifier)
	if err != nil {
		return Resolved{}, err
	}
	r := Resolved{Dir: preferred, Preferred: preferred}

	err = system.EnsureWritableDir(preferred)
	if err == nil {
		return r, nil
	}
	if !system.IsPermissionError(err) {
		return Resolved{}, err
	}

	fallback := TempDir(identifier)
	if fallback == preferred {
		return Resolved{}, err
	}
	if ferr := system.EnsureWritableDir(fallback); ferr != nil {
		return Resolved{}, fmt.Errorf("%w (fallback %s: %w)", err, fallback, ferr)
	}
	r.Dir = fallback
	r.FellBack = true
	r.PreferredErr = err
	return r, nil
}
