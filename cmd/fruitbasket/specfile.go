package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/tmc/fruitbasket"
	"github.com/tmc/fruitbasket/internal/bundle"
)

// specFile is the TOML form of fruitbasket.Spec:
//
//	name = "My App"
//	identifier = "com.example.myapp"
//	path = "bin/myapp"
//	icon = "assets/icon.icns"
//	resources = ["assets/*.png"]
//	install_dir = "temp"
//
//	[plist]
//	LSUIElement = true
//
// Relative paths are taken relative to the spec file.
type specFile struct {
	Name           string         `toml:"name"`
	Path           string         `toml:"path"`
	Executable     string         `toml:"executable"`
	Identifier     string         `toml:"identifier"`
	Version        string         `toml:"version"`
	Icon           string         `toml:"icon"`
	InstallDir     string         `toml:"install_dir"`
	Resources      []string       `toml:"resources"`
	Retina         *bool          `toml:"retina"`
	ExecutableMode string         `toml:"executable_mode"`
	Plist          map[string]any `toml:"plist"`
	PlistRaw       []string       `toml:"plist_raw"`

	dir string
}

func loadSpecFile(path string) (*specFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sf specFile
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&sf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sf.dir = filepath.Dir(path)
	if sf.Path != "" {
		sf.Path = sf.resolve(sf.Path)
	}
	return &sf, nil
}

func (sf *specFile) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(sf.dir, p)
}

// Spec converts the file to a fruitbasket.Spec.
func (sf *specFile) Spec() (fruitbasket.Spec, error) {
	mode, err := bundle.ParseExecMode(sf.ExecutableMode)
	if err != nil {
		return fruitbasket.Spec{}, err
	}
	dir, err := fruitbasket.ParseInstallDir(sf.InstallDir)
	if err != nil {
		return fruitbasket.Spec{}, err
	}

	spec := fruitbasket.Spec{
		Name:           sf.Name,
		Executable:     sf.Executable,
		Identifier:     sf.Identifier,
		Version:        sf.Version,
		Icon:           sf.resolve(sf.Icon),
		InstallDir:     dir,
		PlistKeys:      sf.Plist,
		PlistRaw:       sf.PlistRaw,
		Retina:         sf.Retina == nil || *sf.Retina,
		ExecutableMode: mode,
	}
	for _, r := range sf.Resources {
		spec.Resources = append(spec.Resources, sf.resolve(r))
	}
	return spec, nil
}
