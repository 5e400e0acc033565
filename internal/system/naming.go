package system

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime/debug"
	"strings"
)

var (
	hyphenRun     = regexp.MustCompile("-+")
	separatorRun  = regexp.MustCompile(`[.-]+`)
	bundleIDChars = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
)

// CleanAppName removes characters that are unsafe in a bundle directory
// name. FRUITBASKET_APP_NAME_PREFIX, when set, is prepended first.
func CleanAppName(name string) string {
	if name == "" {
		return ""
	}
	if prefix := os.Getenv(EnvAppNamePrefix); prefix != "" {
		name = prefix + name
	}

	name = strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
		"\"", "-", "<", "-", ">", "-", "|", "-",
	).Replace(name)

	var result strings.Builder
	for _, r := range name {
		if r >= 32 && r < 127 {
			result.WriteRune(r)
		}
	}

	cleaned := strings.Trim(result.String(), "- ")
	return hyphenRun.ReplaceAllString(cleaned, "-")
}

// LimitAppNameLength truncates name to maxLength bytes.
func LimitAppNameLength(name string, maxLength int) string {
	if len(name) <= maxLength {
		return name
	}
	return name[:maxLength]
}

// ExtractAppNameFromPath derives an app name from an executable path by
// dropping a trailing alphanumeric extension.
func ExtractAppNameFromPath(execPath string) string {
	if execPath == "" {
		return ""
	}
	base := filepath.Base(execPath)
	ext := filepath.Ext(base)
	if len(ext) < 2 {
		return base
	}
	for _, r := range ext[1:] {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return base
		}
	}
	return strings.TrimSuffix(base, ext)
}

// InferBundleID builds a reverse-DNS identifier from the main module path
// and the app name:
//
//	github.com/user/repo + "myapp" -> com.github.user.repo.myapp
//	local/project + "app"          -> local.project.app
//
// FRUITBASKET_BUNDLE_ID_PREFIX, when set, is prepended.
func InferBundleID(appName string) string {
	if appName == "" {
		appName = "app"
	}

	var bundleID string
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" && info.Main.Path != "command-line-arguments" {
		bundleID = modulePathToBundleID(info.Main.Path, appName)
	} else {
		bundleID = fallbackBundleID(appName)
	}

	if prefix := os.Getenv(EnvBundleIDPrefix); prefix != "" {
		if !strings.HasSuffix(prefix, ".") {
			prefix += "."
		}
		bundleID = prefix + bundleID
	}
	return SanitizeBundleID(bundleID)
}

func modulePathToBundleID(modulePath, appName string) string {
	parts := strings.Split(modulePath, "/")
	var out []string
	if strings.Contains(parts[0], ".") {
		domain := strings.Split(parts[0], ".")
		for i := len(domain) - 1; i >= 0; i-- {
			out = append(out, domain[i])
		}
		parts = parts[1:]
	}
	for _, p := range parts {
		if p == "" || p == appName {
			continue
		}
		out = append(out, p)
	}
	out = append(out, appName)
	return strings.Join(out, ".")
}

func fallbackBundleID(appName string) string {
	for _, key := range []string{"LOGNAME", "USER"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		v = filepath.Base(strings.ReplaceAll(v, " ", ""))
		if v != "" && v != "." && v != "root" && v != "admin" {
			return fmt.Sprintf("dev.%s.%s", v, appName)
		}
	}
	return "local.app." + appName
}

// SanitizeBundleID lowercases id and replaces everything except
// alphanumerics, dots and hyphens.
func SanitizeBundleID(id string) string {
	if id == "" {
		return "app"
	}

	var result strings.Builder
	for _, r := range strings.ToLower(id) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-' {
			result.WriteRune(r)
		} else {
			result.WriteRune('-')
		}
	}

	cleaned := strings.Trim(result.String(), ".-")
	if len(cleaned) > 0 && cleaned[0] >= '0' && cleaned[0] <= '9' {
		cleaned = "app" + cleaned
	}
	cleaned = separatorRun.ReplaceAllStringFunc(cleaned, func(match string) string {
		if strings.Contains(match, ".") {
			return "."
		}
		return "-"
	})
	if cleaned == "" {
		return "app"
	}
	return cleaned
}

// ValidateBundleID checks that id is a reverse-DNS identifier: at least one
// dot, only alphanumerics, dots and hyphens, no empty components.
func ValidateBundleID(id string) error {
	if id == "" {
		return fmt.Errorf("bundle ID cannot be empty")
	}
	if !strings.Contains(id, ".") {
		return fmt.Errorf("bundle ID %q must contain at least one dot (reverse DNS format)", id)
	}
	if !bundleIDChars.MatchString(id) {
		return fmt.Errorf("bundle ID %q can only contain alphanumeric characters, dots, and hyphens", id)
	}
	for _, c := range strings.Split(id, ".") {
		if c == "" {
			return fmt.Errorf("bundle ID %q has an empty component", id)
		}
	}
	return nil
}
