package system

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// MacOSVersion is a parsed macOS product version.
type MacOSVersion struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

func (v MacOSVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsAtLeast reports whether v >= other.
func (v MacOSVersion) IsAtLeast(other MacOSVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor > other.Minor
	}
	return v.Patch >= other.Patch
}

// GetMacOSVersion runs sw_vers and parses the product version.
func GetMacOSVersion() (MacOSVersion, error) {
	out, err := exec.Command("sw_vers", "-productVersion").Output()
	if err != nil {
		return MacOSVersion{}, fmt.Errorf("failed to run sw_vers: %w", err)
	}
	return ParseMacOSVersion(strings.TrimSpace(string(out)))
}

// ParseMacOSVersion parses "14", "14.2" or "14.2.1".
func ParseMacOSVersion(version string) (MacOSVersion, error) {
	result := MacOSVersion{Raw: version}
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) > 3 {
		return result, fmt.Errorf("invalid version format: %s", version)
	}
	fields := []*int{&result.Major, &result.Minor, &result.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return result, fmt.Errorf("invalid version component %q in %s", p, version)
		}
		*fields[i] = n
	}
	return result, nil
}
