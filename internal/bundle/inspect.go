package bundle

import (
	"fmt"
	"os"

	"github.com/blacktop/go-macho"

	"github.com/tmc/fruitbasket/internal/plist"
)

// Summary describes a bundle found on disk.
type Summary struct {
	Path       string
	Name       string
	Identifier string
	Version    string
	Executable string

	// Architectures lists the CPU types of the bundle executable. It is
	// empty when the executable is not Mach-O, with ArchErr saying why.
	Architectures []string
	ArchErr       error

	Info map[string]any
}

// Inspect validates the bundle at path and summarizes it.
func Inspect(path string) (Summary, error) {
	dict, err := Validate(path)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Path: path, Info: dict}
	s.Name, _ = plist.String(dict, plist.KeyName)
	s.Identifier, _ = plist.String(dict, plist.KeyIdentifier)
	s.Version, _ = plist.String(dict, plist.KeyVersion)
	s.Executable, _ = plist.String(dict, plist.KeyExecutable)
	s.Architectures, s.ArchErr = Architectures(Layout{Root: path}.Executable(s.Executable))
	return s, nil
}

// Architectures returns the CPU types contained in the Mach-O file at path,
// one per slice for universal binaries.
func Architectures(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if fat, err := macho.NewFatFile(f); err == nil {
		defer fat.Close()
		archs := make([]string, 0, len(fat.Arches))
		for _, arch := range fat.Arches {
			archs = append(archs, arch.CPU.String())
		}
		return archs, nil
	}

	m, err := macho.NewFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: not a Mach-O file: %w", path, err)
	}
	defer m.Close()
	return []string{m.CPU.String()}, nil
}
