// Command fruitbasket builds and inspects macOS app bundles for Go programs.
package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/docopt/docopt-go"

	"github.com/tmc/fruitbasket"
	"github.com/tmc/fruitbasket/internal/bundle"
	"github.com/tmc/fruitbasket/internal/plist"
	"github.com/tmc/fruitbasket/internal/system"
)

const version = "0.1.0"

const usage = `fruitbasket - macOS app bundles for Go programs

Usage:
  fruitbasket bundle --spec=<file> [--exe=<path>] [--dir=<dir>] [--debug]
  fruitbasket info --app=<path>
  fruitbasket check --app=<path>
  fruitbasket resource --app=<path> <name> [<ext>]
  fruitbasket -h | --help
  fruitbasket --version

Commands:
  bundle    Build (or refresh) the app bundle described by a TOML spec
  info      Show Info.plist fields and executable architectures of a bundle
  check     Verify that a bundle is well formed
  resource  Print the path of a resource inside a bundle

Options:
  --spec=<file>   TOML bundle description
  --exe=<path>    Executable to bundle; defaults to the spec's path field
  --dir=<dir>     Install directory: user, temp, system or a path
  --app=<path>    Path to an .app bundle
  --debug         Verbose output
  -h --help       Show this help message
  --version       Show version

Environment Variables:
  FRUITBASKET_INSTALL_DIR   Overrides --dir and the spec's install_dir
  FRUITBASKET_DEBUG         Same as --debug

Examples:
  # Bundle ./bin/myapp into ~/Applications/My App.app
  fruitbasket bundle --spec=bundle.toml --exe=bin/myapp

  # Show what is inside a bundle
  fruitbasket info --app="$HOME/Applications/My App.app"
`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		os.Exit(1)
	}
	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts docopt.Opts, w io.Writer) error {
	if ok, _ := opts.Bool("bundle"); ok {
		return runBundle(opts, w)
	}
	if ok, _ := opts.Bool("info"); ok {
		return runInfo(opts, w)
	}
	if ok, _ := opts.Bool("check"); ok {
		return runCheck(opts, w)
	}
	if ok, _ := opts.Bool("resource"); ok {
		return runResource(opts, w)
	}
	return fmt.Errorf("no command given")
}

func runBundle(opts docopt.Opts, w io.Writer) error {
	specPath, _ := opts.String("--spec")
	exe, _ := opts.String("--exe")
	dir, _ := opts.String("--dir")
	if debug, _ := opts.Bool("--debug"); debug {
		os.Setenv(system.EnvDebug, "1")
	}

	sf, err := loadSpecFile(specPath)
	if err != nil {
		return err
	}
	if exe == "" {
		exe = sf.Path
	}
	if exe == "" {
		return fmt.Errorf("--exe is required when the spec has no path")
	}
	if dir != "" {
		sf.InstallDir = dir
	}
	spec, err := sf.Spec()
	if err != nil {
		return fmt.Errorf("%s: %w", specPath, err)
	}

	res, err := fruitbasket.New(spec).Install(exe)
	if err != nil {
		return err
	}
	action := "reused"
	if res.Created {
		action = "created"
	}
	fmt.Fprintf(w, "%s %s\n", action, res.BundlePath)
	if res.FellBack {
		fmt.Fprintf(w, "note: install directory not writable, used temp directory\n")
	}
	return nil
}

func runInfo(opts docopt.Opts, w io.Writer) error {
	path, _ := opts.String("--app")
	s, err := bundle.Inspect(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Path:          %s\n", s.Path)
	fmt.Fprintf(w, "Name:          %s\n", s.Name)
	fmt.Fprintf(w, "Identifier:    %s\n", s.Identifier)
	fmt.Fprintf(w, "Version:       %s\n", s.Version)
	fmt.Fprintf(w, "Executable:    %s\n", s.Executable)
	if s.ArchErr != nil {
		fmt.Fprintf(w, "Architectures: unknown (%v)\n", s.ArchErr)
	} else {
		fmt.Fprintf(w, "Architectures: %s\n", strings.Join(s.Architectures, ", "))
	}
	fmt.Fprintf(w, "Info.plist:\n")
	for _, k := range slices.Sorted(maps.Keys(s.Info)) {
		fmt.Fprintf(w, "  %s = %v\n", k, s.Info[k])
	}
	return nil
}

func runCheck(opts docopt.Opts, w io.Writer) error {
	path, _ := opts.String("--app")
	dict, err := bundle.Validate(path)
	if err != nil {
		return err
	}
	exe, _ := plist.String(dict, plist.KeyExecutable)
	d := bundle.Detect(bundle.Layout{Root: path}.Executable(exe), "")
	if !d.Bundled {
		return fmt.Errorf("%s: executable would not detect its bundle", path)
	}
	var missing []string
	for _, key := range []string{plist.KeyIdentifier, plist.KeyName, plist.KeyVersion} {
		if v, _ := plist.String(dict, key); v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: Info.plist missing %s", path, strings.Join(missing, ", "))
	}
	fmt.Fprintf(w, "ok %s (requires macOS %s)\n", path, plist.MinimumSystemVersion(dict))
	return nil
}

func runResource(opts docopt.Opts, w io.Writer) error {
	path, _ := opts.String("--app")
	name, _ := opts.String("<name>")
	ext, _ := opts.String("<ext>")
	if _, err := bundle.Validate(path); err != nil {
		return err
	}
	p := bundle.Layout{Root: path}.Resource(name, ext)
	if !system.FileExists(p) {
		return fmt.Errorf("resource %s not found in %s", filepath.Base(p), path)
	}
	fmt.Fprintln(w, p)
	return nil
}
