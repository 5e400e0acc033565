package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docopt/docopt-go"

	"github.com/tmc/fruitbasket/internal/system"
)

func parse(t *testing.T, args ...string) docopt.Opts {
	t.Helper()
	p := &docopt.Parser{HelpHandler: docopt.NoHelpHandler}
	opts, err := p.ParseArgs(usage, args, version)
	if err != nil {
		t.Fatalf("parse %q: %v", args, err)
	}
	return opts
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range system.AllEnvVars() {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// setup writes an executable, an icon, a resource and a spec describing
// them, and returns the spec path.
func setup(t *testing.T) (dir, specPath string) {
	t.Helper()
	clearEnv(t)
	dir = t.TempDir()
	files := map[string]string{
		"bin/tool":         "#!/bin/sh\n",
		"assets/icon.icns": "icns\x00\x00\x00\x08",
		"assets/help.txt":  "help",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0755); err != nil {
			t.Fatal(err)
		}
	}
	spec := `
name = "Tool"
identifier = "com.example.tool"
version = "3.1.4"
path = "bin/tool"
icon = "assets/icon.icns"
resources = ["assets/*.txt"]
plist_raw = ['CFBundleURLTypes = ( { CFBundleURLName = "tool"; CFBundleURLSchemes = ( "tool" ); } );']

[plist]
LSUIElement = true
`
	specPath = filepath.Join(dir, "bundle.toml")
	if err := os.WriteFile(specPath, []byte(spec), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, specPath
}

func TestBundleInfoCheckResource(t *testing.T) {
	dir, specPath := setup(t)
	apps := filepath.Join(dir, "Apps")
	app := filepath.Join(apps, "Tool.app")

	var out bytes.Buffer
	if err := run(parse(t, "bundle", "--spec="+specPath, "--dir="+apps), &out); err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if got := out.String(); got != "created "+app+"\n" {
		t.Errorf("bundle output = %q", got)
	}

	out.Reset()
	if err := run(parse(t, "bundle", "--spec="+specPath, "--dir="+apps), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "reused ") {
		t.Errorf("second bundle output = %q", out.String())
	}

	out.Reset()
	if err := run(parse(t, "info", "--app="+app), &out); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"Identifier:    com.example.tool",
		"Version:       3.1.4",
		"Architectures: unknown",
		"LSUIElement = true",
		"CFBundleURLTypes = ",
		"CFBundleIconFile = icon.icns",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("info output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := run(parse(t, "check", "--app="+app), &out); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.HasPrefix(out.String(), "ok ") {
		t.Errorf("check output = %q", out.String())
	}

	out.Reset()
	if err := run(parse(t, "resource", "--app="+app, "help", "txt"), &out); err != nil {
		t.Fatalf("resource: %v", err)
	}
	if want := filepath.Join(app, "Contents", "Resources", "help.txt") + "\n"; out.String() != want {
		t.Errorf("resource output = %q, want %q", out.String(), want)
	}
	if err := run(parse(t, "resource", "--app="+app, "nope"), &out); err == nil {
		t.Error("missing resource reported found")
	}
}

func TestCheckRejectsBrokenBundle(t *testing.T) {
	clearEnv(t)
	app := filepath.Join(t.TempDir(), "Broken.app")
	if err := os.MkdirAll(filepath.Join(app, "Contents", "MacOS"), 0755); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(parse(t, "check", "--app="+app), &out); err == nil {
		t.Error("check accepted a bundle without Info.plist")
	}
}

func TestSpecFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, sf *specFile)
	}{
		{
			name:    "defaults",
			content: `name = "A"`,
			check: func(t *testing.T, sf *specFile) {
				spec, err := sf.Spec()
				if err != nil {
					t.Fatal(err)
				}
				if !spec.Retina {
					t.Error("retina off by default")
				}
			},
		},
		{
			name:    "relative paths",
			content: "icon = \"i.icns\"\nresources = [\"/abs/r\", \"rel/r\"]\nretina = false",
			check: func(t *testing.T, sf *specFile) {
				spec, err := sf.Spec()
				if err != nil {
					t.Fatal(err)
				}
				if spec.Icon != filepath.Join(dir, "i.icns") {
					t.Errorf("Icon = %q", spec.Icon)
				}
				if spec.Resources[0] != "/abs/r" || spec.Resources[1] != filepath.Join(dir, "rel/r") {
					t.Errorf("Resources = %q", spec.Resources)
				}
				if spec.Retina {
					t.Error("retina = false ignored")
				}
			},
		},
		{
			name:    "bad mode",
			content: `executable_mode = "teleport"`,
			check: func(t *testing.T, sf *specFile) {
				if _, err := sf.Spec(); err == nil {
					t.Error("bad executable_mode accepted")
				}
			},
		},
		{
			name:    "unknown field",
			content: `colour = "red"`,
			wantErr: true,
		},
		{
			name:    "not toml",
			content: `name = `,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(dir, "spec.toml")
			if err := os.WriteFile(p, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			sf, err := loadSpecFile(p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadSpecFile() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, sf)
			}
		})
	}
}
