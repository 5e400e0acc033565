// Package launch starts a freshly built app bundle as a new process.
package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/tmc/fruitbasket/internal/system"
)

// Strategy represents different ways to launch an application.
type Strategy int

const (
	// StrategyDirect executes the binary inside the bundle.
	StrategyDirect Strategy = iota
	// StrategyServices asks LaunchServices to open the bundle via 'open'.
	StrategyServices
)

// String returns a string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return system.LaunchDirect
	case StrategyServices:
		return system.LaunchServices
	default:
		return "unknown"
	}
}

// Request describes one relaunch.
type Request struct {
	// BundlePath is the .app directory.
	BundlePath string
	// ExecPath is the executable inside Contents/MacOS.
	ExecPath string
	// Args are passed to the new process, normally os.Args[1:].
	Args []string
	// Env holds extra KEY=value entries added to the inherited environment.
	Env []string

	Debug bool
}

// Launcher starts the bundle. Implementations must not wait for the
// launched application to exit.
type Launcher interface {
	Launch(ctx context.Context, req *Request) error
}

// Manager picks a strategy and delegates to the matching Launcher.
type Manager struct {
	directLauncher   Launcher
	servicesLauncher Launcher
	mode             string
	goos             string
}

// New creates a manager with the default launchers. mode is one of the
// system.Launch* values; anything else behaves like system.LaunchAuto.
func New(mode string) *Manager {
	return NewWithLaunchers(&DirectLauncher{}, NewServicesLauncher(), mode)
}

// NewWithLaunchers creates a manager with custom launchers.
func NewWithLaunchers(direct, services Launcher, mode string) *Manager {
	return &Manager{
		directLauncher:   direct,
		servicesLauncher: services,
		mode:             mode,
		goos:             runtime.GOOS,
	}
}

// Strategy returns the strategy Launch will use.
func (m *Manager) Strategy() Strategy {
	switch m.mode {
	case system.LaunchDirect:
		return StrategyDirect
	case system.LaunchServices:
		return StrategyServices
	}
	// LaunchServices only exists on macOS.
	if m.goos == "darwin" {
		return StrategyServices
	}
	return StrategyDirect
}

// Launch starts the bundle with the selected strategy.
func (m *Manager) Launch(ctx context.Context, req *Request) error {
	strategy := m.Strategy()
	if req.Debug {
		fmt.Fprintf(os.Stderr, "fruitbasket: selected launch strategy: %v\n", strategy)
	}

	switch strategy {
	case StrategyDirect:
		return m.directLauncher.Launch(ctx, req)
	case StrategyServices:
		return m.servicesLauncher.Launch(ctx, req)
	default:
		return fmt.Errorf("unknown launch strategy: %v", strategy)
	}
}

// startDetached starts cmd and releases it so the parent can exit without
// reaping the child.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
