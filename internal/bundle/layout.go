package bundle

import (
	"path/filepath"
	"strings"
)

// Layout names the paths inside a bundle rooted at Root.
type Layout struct {
	Root string
}

func (l Layout) Contents() string  { return filepath.Join(l.Root, "Contents") }
func (l Layout) MacOS() string     { return filepath.Join(l.Root, "Contents", "MacOS") }
func (l Layout) Resources() string { return filepath.Join(l.Root, "Contents", "Resources") }
func (l Layout) InfoPlist() string { return filepath.Join(l.Root, "Contents", "Info.plist") }

// Executable returns the path of the named executable in Contents/MacOS.
func (l Layout) Executable(name string) string {
	return filepath.Join(l.MacOS(), name)
}

// Resource returns the path of name.ext in Contents/Resources. An empty ext
// means name is used as is.
func (l Layout) Resource(name, ext string) string {
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return filepath.Join(l.Resources(), name)
}

// Enclosing returns the bundle root for an executable laid out as
// <X>.app/Contents/MacOS/<exe>. Only the shape of the path is checked.
func Enclosing(execPath string) (string, bool) {
	macos := filepath.Dir(filepath.Clean(execPath))
	contents := filepath.Dir(macos)
	root := filepath.Dir(contents)
	if filepath.Base(macos) != "MacOS" || filepath.Base(contents) != "Contents" {
		return "", false
	}
	if !strings.HasSuffix(root, ".app") || filepath.Base(root) == ".app" {
		return "", false
	}
	return root, true
}

// canonicalPath makes p absolute and resolves symlinks in the longest
// existing prefix of its directory. The final element is left alone so a
// symlinked executable keeps the name it was started under.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	dir, base := filepath.Split(abs)
	dir = filepath.Clean(dir)
	var rest []string
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(append(append([]string{resolved}, rest...), base)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent
	}
}
