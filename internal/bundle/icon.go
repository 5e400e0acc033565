package bundle

import (
	"fmt"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tmc/fruitbasket/internal/system"
)

// iconTypes are the image formats accepted for CFBundleIconFile.
var iconTypes = []string{"image/x-icns", "image/png", "image/tiff", "image/jpeg"}

// CheckIcon verifies that path is a readable image in one of the formats
// Finder can show as an app icon.
func CheckIcon(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("icon %s: %w", path, err)
	}
	for _, t := range iconTypes {
		if mtype.Is(t) {
			return nil
		}
	}
	return fmt.Errorf("icon %s: unsupported type %s", path, mtype.String())
}

// CopyIcon checks the icon and copies it into dir under its base name.
func CopyIcon(path, dir string) error {
	if err := CheckIcon(path); err != nil {
		return err
	}
	if err := system.CopyFile(path, filepath.Join(dir, filepath.Base(path))); err != nil {
		return fmt.Errorf("icon %s: %w", path, err)
	}
	return nil
}
