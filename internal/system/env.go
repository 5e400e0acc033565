package system

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix shared by every fruitbasket environment variable.
const EnvPrefix = "FRUITBASKET"

// Environment variable names, as read by LoadEnv.
const (
	EnvDebug          = "FRUITBASKET_DEBUG"
	EnvNoRelaunch     = "FRUITBASKET_NO_RELAUNCH"
	EnvLaunch         = "FRUITBASKET_LAUNCH"
	EnvInstallDir     = "FRUITBASKET_INSTALL_DIR"
	EnvBundleMarker   = "FRUITBASKET_BUNDLE"
	EnvLogDest        = "FRUITBASKET_LOG_DEST"
	EnvLogJSON        = "FRUITBASKET_LOG_JSON"
	EnvAppNamePrefix  = "FRUITBASKET_APP_NAME_PREFIX"
	EnvBundleIDPrefix = "FRUITBASKET_BUNDLE_ID_PREFIX"
)

// Launch modes accepted in FRUITBASKET_LAUNCH.
const (
	LaunchAuto     = "auto"
	LaunchServices = "services"
	LaunchDirect   = "direct"
)

// Env holds the environment overrides for a run.
type Env struct {
	Debug      bool   `envconfig:"DEBUG"`
	NoRelaunch bool   `envconfig:"NO_RELAUNCH"`
	Launch     string `envconfig:"LAUNCH" default:"auto"`
	InstallDir string `envconfig:"INSTALL_DIR"`

	// Bundle is the relaunch marker: the bundle path the parent process
	// relaunched into.
	Bundle string `envconfig:"BUNDLE"`

	LogDest string `envconfig:"LOG_DEST" default:"stderr"`
	LogJSON bool   `envconfig:"LOG_JSON"`

	AppNamePrefix  string `envconfig:"APP_NAME_PREFIX"`
	BundleIDPrefix string `envconfig:"BUNDLE_ID_PREFIX"`
}

// LoadEnv reads FRUITBASKET_* variables from the process environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("read environment: %w", err)
	}
	if env.LogDest == "" {
		env.LogDest = "stderr"
	}
	env.Launch = strings.ToLower(strings.TrimSpace(env.Launch))
	switch env.Launch {
	case "", LaunchAuto:
		env.Launch = LaunchAuto
	case LaunchServices, LaunchDirect:
	default:
		return Env{}, fmt.Errorf("%s: unknown launch mode %q", EnvLaunch, env.Launch)
	}
	return env, nil
}

// MustLoadEnv is LoadEnv for callers that cannot report an error. Invalid
// values fall back to the zero configuration.
func MustLoadEnv() Env {
	env, err := LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fruitbasket: %v\n", err)
		return Env{Launch: LaunchAuto, LogDest: "stderr"}
	}
	return env
}

// MarkerEnv returns the KEY=value pair that tells a relaunched process which
// bundle it was started from.
func MarkerEnv(bundlePath string) string {
	return EnvBundleMarker + "=" + bundlePath
}

// AllEnvVars returns every known fruitbasket environment variable.
func AllEnvVars() []string {
	return []string{
		EnvDebug,
		EnvNoRelaunch,
		EnvLaunch,
		EnvInstallDir,
		EnvBundleMarker,
		EnvLogDest,
		EnvLogJSON,
		EnvAppNamePrefix,
		EnvBundleIDPrefix,
	}
}
