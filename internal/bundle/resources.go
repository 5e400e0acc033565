package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/tmc/fruitbasket/internal/system"
)

// Resource is one expanded resource entry.
type Resource struct {
	// Src is the file or directory to copy.
	Src string
	// Dst is the slash-separated destination relative to Resources.
	Dst string
}

// ExpandResources turns resource entries into concrete copies. Entries
// containing glob metacharacters are expanded with doublestar (so "**"
// matches across directories) and must match at least one path; each match
// keeps its path relative to the pattern's literal base, so "assets/**"
// reproduces the tree under assets. Plain entries must exist and are placed
// by base name. Matches inside a directory that is already copied are
// dropped, as are later entries with the same destination.
func ExpandResources(patterns []string) ([]Resource, error) {
	var (
		res  []Resource
		errs []error
		dsts = make(map[string]bool)
		dirs []string
	)
	add := func(src, dst string) {
		if dst == "." || dsts[dst] {
			return
		}
		for _, d := range dirs {
			if strings.HasPrefix(dst, d+"/") {
				return
			}
		}
		if fi, err := os.Stat(src); err == nil && fi.IsDir() {
			dirs = append(dirs, dst)
		}
		dsts[dst] = true
		res = append(res, Resource{Src: src, Dst: dst})
	}
	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			if _, err := os.Stat(pattern); err != nil {
				errs = append(errs, fmt.Errorf("resource %s: %w", pattern, err))
				continue
			}
			add(pattern, filepath.Base(pattern))
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("resource pattern %s: %w", pattern, err))
			continue
		}
		if len(matches) == 0 {
			errs = append(errs, fmt.Errorf("resource pattern %s: no matches", pattern))
			continue
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		base = filepath.FromSlash(base)
		// Parents sort before their descendants.
		sort.Strings(matches)
		for _, m := range matches {
			rel, err := filepath.Rel(base, m)
			if err != nil {
				errs = append(errs, fmt.Errorf("resource %s: %w", m, err))
				continue
			}
			add(m, filepath.ToSlash(rel))
		}
	}
	return res, errors.Join(errs...)
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// CopyResources expands patterns and copies each result into dir. Every
// failure is reported.
func CopyResources(patterns []string, dir string) error {
	res, err := ExpandResources(patterns)
	errs := []error{err}
	for _, r := range res {
		if err := copyResourceTo(r.Src, filepath.Join(dir, filepath.FromSlash(r.Dst))); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CopyResource copies one file or directory tree into dir as
// dir/<base>.
func CopyResource(src, dir string) error {
	return copyResourceTo(src, filepath.Join(dir, filepath.Base(src)))
}

func copyResourceTo(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("resource %s: %w", src, err)
	}
	if !info.IsDir() {
		if err := system.CopyFile(src, dst); err != nil {
			return fmt.Errorf("resource %s: %w", src, err)
		}
		return nil
	}
	if err := copyTree(src, dst); err != nil {
		return fmt.Errorf("resource %s: %w", src, err)
	}
	return nil
}

// copyTree copies the regular files and directories under src to dst.
// fastwalk calls the callback from several goroutines, so each file creates
// its own parent directory.
func copyTree(src, dst string) error {
	conf := fastwalk.Config{Follow: true}
	return fastwalk.Walk(&conf, src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if d.Type()&fs.ModeSymlink != 0 {
			fi, err := fastwalk.StatDirEntry(path, d)
			if err != nil || !fi.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		return system.CopyFile(path, target)
	})
}
