package fruitbasket

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/tmc/fruitbasket/internal/bundle"
	"github.com/tmc/fruitbasket/internal/launch"
	"github.com/tmc/fruitbasket/internal/system"
)

// Outcome is what EnsureBundled did.
type Outcome int

const (
	// AlreadyBundled: the process runs from a valid bundle. Nothing was
	// written.
	AlreadyBundled Outcome = iota
	// Relaunched: an up-to-date bundle existed and was started.
	Relaunched
	// CreatedAndRelaunched: the bundle was (re)built and started.
	CreatedAndRelaunched
)

func (o Outcome) String() string {
	switch o {
	case AlreadyBundled:
		return "already-bundled"
	case Relaunched:
		return "relaunched"
	case CreatedAndRelaunched:
		return "created-and-relaunched"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result reports the bundle EnsureBundled settled on.
type Result struct {
	Outcome Outcome

	// BundlePath is the bundle the process runs from or was relaunched
	// into.
	BundlePath string

	// FellBack reports that the preferred install directory was not
	// writable and the temp directory was used.
	FellBack bool

	// Created reports that the bundle was written rather than reused.
	Created bool
}

// Trampoline moves a plain executable into an app bundle and restarts it
// from there.
type Trampoline struct {
	spec Spec

	// Hooks replaced in tests.
	launcher   launch.Launcher
	exit       func(code int)
	executable func() (string, error)
	args       []string
	loadEnv    func() (system.Env, error)
	unsetenv   func(key string) error
	osVersion  func() (system.MacOSVersion, error)
	goos       string
	log        *slog.Logger
}

// New returns a trampoline for spec.
func New(spec Spec) *Trampoline {
	return &Trampoline{
		spec:       spec,
		exit:       os.Exit,
		executable: os.Executable,
		args:       os.Args[1:],
		loadEnv:    system.LoadEnv,
		unsetenv:   os.Unsetenv,
		osVersion:  system.GetMacOSVersion,
		goos:       runtime.GOOS,
	}
}

// IsBundled reports whether the running executable sits inside a valid app
// bundle.
func IsBundled() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return bundle.Detect(exe, os.Getenv(system.EnvBundleMarker)).Bundled
}

// Build is EnsureBundled followed by Init. It only returns in the bundled
// process: after a relaunch the original process exits with status 0.
func (t *Trampoline) Build(ctx context.Context, dir InstallDir) (*App, error) {
	t.spec.InstallDir = dir
	res, err := t.EnsureBundled(ctx)
	if err != nil {
		return nil, err
	}
	if res.Outcome != AlreadyBundled {
		// Only reachable when exit has been replaced.
		return nil, nil
	}
	return Init(), nil
}

// EnsureBundled makes sure the program runs from an app bundle.
//
// If it already does, EnsureBundled returns AlreadyBundled without touching
// the filesystem. Otherwise it builds (or reuses) the bundle, starts the
// bundled executable with the same arguments, and exits the current process
// with status 0. Errors leave the current process running.
func (t *Trampoline) EnsureBundled(ctx context.Context) (Result, error) {
	env, err := t.loadEnv()
	if err != nil {
		return Result{}, newError("read environment", ErrConfig, err, "")
	}
	log := t.logger(env)

	exe, err := t.executable()
	if err != nil {
		return Result{}, newError("locate executable", ErrBundleCreation, err, "")
	}

	d := bundle.Detect(exe, env.Bundle)
	if env.Bundle != "" {
		// Children of this process must not inherit the marker.
		if err := t.unsetenv(system.EnvBundleMarker); err != nil {
			log.Warn("clear bundle marker", "error", err)
		}
	}
	if d.Bundled {
		log.Debug("running from bundle", "path", d.Path, "via_marker", d.ViaMarker)
		return Result{Outcome: AlreadyBundled, BundlePath: d.Path}, nil
	}
	if env.Bundle != "" {
		if t.buildsInto(env, exe, env.Bundle) {
			return Result{}, newError("detect bundle", ErrRelaunchLoop,
				fmt.Errorf("relaunched into %s but %s is not inside a valid bundle", env.Bundle, exe),
				"unset "+system.EnvBundleMarker+" or rebuild the bundle")
		}
		log.Debug("ignoring bundle marker of another app", "marker", env.Bundle)
	}
	if env.NoRelaunch {
		return Result{}, newError("relaunch", ErrRelaunchDisabled, nil,
			"unset "+system.EnvNoRelaunch+" to build and start the app bundle")
	}

	b, res, err := t.install(env, exe, log)
	if err != nil {
		return res, err
	}
	res.Outcome = Relaunched
	if res.Created {
		res.Outcome = CreatedAndRelaunched
	}

	req := &launch.Request{
		BundlePath: b.Path,
		ExecPath:   b.ExecutablePath(),
		Args:       t.args,
		Env:        []string{system.MarkerEnv(b.Path)},
		Debug:      env.Debug,
	}
	if err := t.launcherFor(env).Launch(ctx, req); err != nil {
		return res, newError("relaunch", ErrRelaunch, err, "")
	}
	log.Debug("relaunched into bundle", "path", b.Path, "outcome", res.Outcome)

	t.exit(0)
	return res, nil
}

// Install writes (or reuses) the bundle for the executable at exe without
// starting it. FRUITBASKET_INSTALL_DIR and the temp fallback apply as in
// EnsureBundled.
func (t *Trampoline) Install(exe string) (Result, error) {
	env, err := t.loadEnv()
	if err != nil {
		return Result{}, newError("read environment", ErrConfig, err, "")
	}
	_, res, err := t.install(env, exe, t.logger(env))
	return res, err
}

func (t *Trampoline) install(env system.Env, exe string, log *slog.Logger) (*bundle.Bundle, Result, error) {
	b, err := bundle.New(exe, ".", t.spec.config(env.Debug))
	if err != nil {
		return nil, Result{}, newError("create bundle", ErrBundleCreation, err, "")
	}
	if err := t.checkMinimumOS(b); err != nil {
		return nil, Result{}, err
	}

	dir, err := t.installDir(env)
	if err != nil {
		return nil, Result{}, err
	}
	loc, err := bundle.ResolveLocation(dir.location(), b.Identifier())
	if err != nil {
		if system.IsPermissionError(err) {
			return nil, Result{}, newError("choose install directory", ErrPermissionDenied, err,
				"set "+system.EnvInstallDir+" to a writable directory")
		}
		return nil, Result{}, newError("choose install directory", ErrBundleCreation, err, "")
	}
	if loc.FellBack {
		log.Warn("install directory not writable, using temp directory",
			"preferred", loc.Preferred, "dir", loc.Dir, "error", loc.PreferredErr)
	}
	b.Path = filepath.Join(loc.Dir, b.Name()+".app")
	res := Result{BundlePath: b.Path, FellBack: loc.FellBack}

	if b.Encloses(exe) {
		return nil, res, newError("create bundle", ErrBundleCreation,
			fmt.Errorf("target %s contains the running executable", b.Path), "")
	}

	created, err := b.Ensure()
	if err != nil {
		return nil, res, newError("create bundle", ErrBundleCreation, err, "")
	}
	res.Created = created
	if created {
		log.Info("created app bundle", "path", b.Path, "identifier", b.Identifier())
	}
	return b, res, nil
}

func (t *Trampoline) installDir(env system.Env) (InstallDir, error) {
	if env.InstallDir == "" {
		return t.spec.InstallDir, nil
	}
	dir, err := ParseInstallDir(env.InstallDir)
	if err != nil {
		return InstallDir{}, newError("read environment", ErrConfig,
			fmt.Errorf("%s: %w", system.EnvInstallDir, err), "")
	}
	return dir, nil
}

// buildsInto reports whether marker is a bundle path this trampoline could
// have relaunched exe into: the preferred install directory or its temp
// fallback. It does not touch the filesystem.
func (t *Trampoline) buildsInto(env system.Env, exe, marker string) bool {
	b, err := bundle.New(exe, ".", t.spec.config(env.Debug))
	if err != nil {
		return false
	}
	dir, err := t.installDir(env)
	if err != nil {
		return false
	}
	want := filepath.Clean(marker)
	dirs := []string{bundle.TempDir(b.Identifier())}
	if preferred, err := dir.location().Dir(b.Identifier()); err == nil {
		dirs = append(dirs, preferred)
	}
	for _, d := range dirs {
		if filepath.Join(d, b.Name()+".app") == want {
			return true
		}
	}
	return false
}

// checkMinimumOS refuses to build a bundle macOS would not launch.
func (t *Trampoline) checkMinimumOS(b *bundle.Bundle) error {
	if t.goos != "darwin" {
		return nil
	}
	want, err := b.MinimumSystemVersion()
	if err != nil {
		return newError("check minimum system version", ErrBundleCreation, err, "")
	}
	have, err := t.osVersion()
	if err != nil {
		return newError("check minimum system version", ErrBundleCreation, err, "")
	}
	if !have.IsAtLeast(want) {
		return newError("check minimum system version", ErrBundleCreation,
			fmt.Errorf("bundle requires macOS %s, running %s", want, have),
			"lower LSMinimumSystemVersion in PlistKeys")
	}
	return nil
}

func (t *Trampoline) launcherFor(env system.Env) launch.Launcher {
	if t.launcher != nil {
		return t.launcher
	}
	return launch.New(env.Launch)
}

func (t *Trampoline) logger(env system.Env) *slog.Logger {
	if t.log != nil {
		return t.log
	}
	if env.Debug {
		return envLogger(launch.LogConfigFromEnv(env))
	}
	return Logger()
}

// envLoggers holds one logger per configuration so repeated calls share a
// single rotating log file.
var envLoggers struct {
	sync.Mutex
	m map[launch.LogConfig]*launch.Logger
}

func envLogger(cfg launch.LogConfig) *slog.Logger {
	envLoggers.Lock()
	defer envLoggers.Unlock()
	if l, ok := envLoggers.m[cfg]; ok {
		return l.Logger
	}
	if envLoggers.m == nil {
		envLoggers.m = make(map[launch.LogConfig]*launch.Logger)
	}
	l := launch.NewLoggerWithConfig(cfg)
	envLoggers.m[cfg] = l
	return l.Logger
}
