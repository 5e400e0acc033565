// Package system provides filesystem, environment and naming helpers shared by
// the bundle trampoline.
package system

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CopyFile copies a file from src to dst, creating dst's directory and
// preserving the source permissions.
func CopyFile(src, dst string) error {
	if src == "" {
		return fmt.Errorf("source file path cannot be empty")
	}
	if dst == "" {
		return fmt.Errorf("destination file path cannot be empty")
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to get source file info: %w", err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("source %s is a directory", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := dstFile.Chmod(srcInfo.Mode().Perm()); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	return dstFile.Close()
}

// LinkFile places src at dst as a symbolic link (symbolic true) or a hard
// link. An existing dst is replaced.
func LinkFile(src, dst string, symbolic bool) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove existing %s: %w", dst, err)
	}
	if symbolic {
		return os.Symlink(abs, dst)
	}
	return os.Link(abs, dst)
}

// IsWritableDir reports whether dir exists, is a directory, and can be
// written by the current user. The returned error wraps fs.ErrPermission when
// access is denied.
func IsWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return &fs.PathError{Op: "access", Path: dir, Err: err}
	}
	return nil
}

// EnsureWritableDir creates dir if needed and checks that it can be written.
func EnsureWritableDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return IsWritableDir(dir)
}

// IsPermissionError reports whether err is a permission failure, including
// the read-only filesystem case.
func IsPermissionError(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, unix.EROFS) || errors.Is(err, unix.EACCES)
}

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CalculateFileSHA256 returns the hex SHA-256 of a file's contents.
func CalculateFileSHA256(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file %s for hashing: %w", filePath, err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// SameContents reports whether two files hash identically. Unreadable files
// are never the same.
func SameContents(a, b string) bool {
	ha, err := CalculateFileSHA256(a)
	if err != nil {
		return false
	}
	hb, err := CalculateFileSHA256(b)
	if err != nil {
		return false
	}
	return ha == hb
}
