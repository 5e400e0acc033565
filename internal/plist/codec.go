package plist

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	hplist "howett.net/plist"
)

// Encode renders dict as an XML property list indented with tabs.
func Encode(dict map[string]any) ([]byte, error) {
	data, err := hplist.MarshalIndent(dict, hplist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("encode plist: %w", err)
	}
	return data, nil
}

// Decode parses a property list in any format howett.net/plist understands
// (XML, binary, OpenStep, GNUstep). The top level must be a dictionary.
func Decode(data []byte) (map[string]any, error) {
	// howett.net/plist reads empty input as an empty dictionary.
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("decode plist: empty property list")
	}
	var dict map[string]any
	if _, err := hplist.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("decode plist: %w", err)
	}
	if dict == nil {
		return nil, fmt.Errorf("decode plist: top level is not a dictionary")
	}
	return dict, nil
}

// ParseFragment parses OpenStep dictionary entries without the enclosing
// braces, e.g. `LSUIElement = 1; CFBundleURLTypes = ( ... );`. A missing
// final semicolon is tolerated.
func ParseFragment(raw string) (map[string]any, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return map[string]any{}, nil
	}
	if !strings.HasSuffix(body, ";") {
		body += ";"
	}
	var dict map[string]any
	if _, err := hplist.Unmarshal([]byte("{\n"+body+"\n}"), &dict); err != nil {
		return nil, fmt.Errorf("parse plist fragment %q: %w", abbreviate(raw), err)
	}
	return dict, nil
}

// WriteFile encodes dict to path with mode 0644.
func WriteFile(path string, dict map[string]any) error {
	data, err := Encode(dict)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteInfo assembles info and writes it to path.
func WriteInfo(path string, info Info) error {
	dict, err := info.Dict()
	if err != nil {
		return err
	}
	return WriteFile(path, dict)
}

// ReadFile reads and decodes the property list at path.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dict, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

func abbreviate(s string) string {
	const limit = 40
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
