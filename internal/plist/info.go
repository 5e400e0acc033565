// Package plist builds, writes and reads the Info.plist of an app bundle.
package plist

import (
	"fmt"
	"maps"
	"slices"
)

// Info.plist keys written by fruitbasket.
const (
	KeyName                  = "CFBundleName"
	KeyDisplayName           = "CFBundleDisplayName"
	KeyIdentifier            = "CFBundleIdentifier"
	KeyExecutable            = "CFBundleExecutable"
	KeyIconFile              = "CFBundleIconFile"
	KeyVersion               = "CFBundleVersion"
	KeyShortVersion          = "CFBundleShortVersionString"
	KeyInfoDictionaryVersion = "CFBundleInfoDictionaryVersion"
	KeyPackageType           = "CFBundlePackageType"
	KeySignature             = "CFBundleSignature"
	KeyMinimumSystemVersion  = "LSMinimumSystemVersion"
	KeyPrincipalClass        = "NSPrincipalClass"
	KeyHighResolution        = "NSHighResolutionCapable"
)

// DefaultMinimumSystemVersion is written as LSMinimumSystemVersion unless
// the caller supplies its own.
const DefaultMinimumSystemVersion = "10.10.0"

// Defaults are written when the caller does not set the key.
var Defaults = map[string]any{
	KeyInfoDictionaryVersion: "6.0",
	KeyPackageType:           "APPL",
	KeySignature:             "xxxx",
	KeyMinimumSystemVersion:  DefaultMinimumSystemVersion,
}

// Forbidden keys are derived from the bundle description and cannot be
// overridden by user keys or raw fragments.
var Forbidden = []string{
	KeyName,
	KeyDisplayName,
	KeyIdentifier,
	KeyExecutable,
	KeyIconFile,
	KeyVersion,
}

// IsForbidden reports whether key is one of the Forbidden keys.
func IsForbidden(key string) bool {
	return slices.Contains(Forbidden, key)
}

// Info describes the contents of a bundle's Info.plist.
type Info struct {
	Name       string
	Identifier string
	Executable string
	IconFile   string
	Version    string

	// Retina adds NSPrincipalClass and NSHighResolutionCapable.
	Retina bool

	// Keys are user entries. Forbidden keys are dropped.
	Keys map[string]any

	// Raw holds OpenStep fragments such as
	//	CFBundleURLTypes = ( { CFBundleURLName = "x"; CFBundleURLSchemes = ( "x" ); } );
	// merged after Keys.
	Raw []string
}

func (info Info) validate() error {
	if info.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if info.Identifier == "" {
		return fmt.Errorf("bundle ID is required")
	}
	if info.Executable == "" {
		return fmt.Errorf("executable name is required")
	}
	if info.Version == "" {
		return fmt.Errorf("version is required")
	}
	return nil
}

// Dict assembles the Info.plist dictionary. Precedence from lowest to
// highest: defaults, retina keys, user keys, raw fragments, and finally the
// forbidden keys derived from info itself.
func (info Info) Dict() (map[string]any, error) {
	if err := info.validate(); err != nil {
		return nil, fmt.Errorf("invalid info plist: %w", err)
	}

	dict := maps.Clone(Defaults)
	if info.Retina {
		dict[KeyPrincipalClass] = "NSApplication"
		dict[KeyHighResolution] = true
	}
	for k, v := range info.Keys {
		if IsForbidden(k) {
			continue
		}
		dict[k] = v
	}
	for _, raw := range info.Raw {
		frag, err := ParseFragment(raw)
		if err != nil {
			return nil, err
		}
		for k, v := range frag {
			if IsForbidden(k) {
				continue
			}
			dict[k] = v
		}
	}

	dict[KeyName] = info.Name
	dict[KeyDisplayName] = info.Name
	dict[KeyIdentifier] = info.Identifier
	dict[KeyExecutable] = info.Executable
	dict[KeyIconFile] = info.IconFile
	dict[KeyVersion] = info.Version
	if _, ok := dict[KeyShortVersion]; !ok {
		dict[KeyShortVersion] = info.Version
	}
	return dict, nil
}

// MinimumSystemVersion returns LSMinimumSystemVersion from dict, or the
// default when absent or not a string.
func MinimumSystemVersion(dict map[string]any) string {
	if v, ok := String(dict, KeyMinimumSystemVersion); ok && v != "" {
		return v
	}
	return DefaultMinimumSystemVersion
}

// String returns dict[key] when it holds a string.
func String(dict map[string]any, key string) (string, bool) {
	s, ok := dict[key].(string)
	return s, ok
}
