package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/tmc/fruitbasket/internal/system"
)

// envFlagMinimum is the first macOS release whose open(1) accepts --env.
var envFlagMinimum = system.MacOSVersion{Major: 13}

// ServicesLauncher opens the bundle through LaunchServices with open(1), so
// the new process is registered as a regular app (Dock icon, Apple events,
// URL handlers).
//
// open returns once LaunchServices has started the app; it is never given
// -W, so the app itself is not waited for.
type ServicesLauncher struct {
	// OpenPath is the open binary. Defaults to "open".
	OpenPath string

	// PassEnv adds Request.Env with --env. LaunchServices does not deliver
	// it reliably, so the new process must not depend on it.
	PassEnv bool

	// Run executes the prepared open command. Nil means cmd.Run.
	Run func(*exec.Cmd) error
}

// NewServicesLauncher returns a launcher that passes --env when the running
// macOS supports it.
func NewServicesLauncher() *ServicesLauncher {
	s := &ServicesLauncher{}
	if runtime.GOOS == "darwin" {
		if v, err := system.GetMacOSVersion(); err == nil && v.IsAtLeast(envFlagMinimum) {
			s.PassEnv = true
		}
	}
	return s
}

// Launch opens req.BundlePath as a new instance.
func (s *ServicesLauncher) Launch(ctx context.Context, req *Request) error {
	if req.BundlePath == "" {
		return fmt.Errorf("bundle path not set")
	}
	cmd := s.buildOpenCommand(ctx, req)

	if req.Debug {
		fmt.Fprintf(os.Stderr, "fruitbasket: %s\n", strings.Join(cmd.Args, " "))
	}

	run := s.Run
	if run == nil {
		run = (*exec.Cmd).Run
	}
	if err := run(cmd); err != nil {
		return fmt.Errorf("open %s: %w", req.BundlePath, err)
	}
	return nil
}

// buildOpenCommand constructs the open command line:
//
//	open -n [--env K=V ...] <bundle> [--args a b ...]
func (s *ServicesLauncher) buildOpenCommand(ctx context.Context, req *Request) *exec.Cmd {
	// -n starts a new instance even if an older copy of the app is running.
	args := []string{"-n"}
	if s.PassEnv {
		for _, kv := range req.Env {
			args = append(args, "--env", kv)
		}
	}
	args = append(args, req.BundlePath)
	if len(req.Args) > 0 {
		args = append(args, "--args")
		args = append(args, req.Args...)
	}

	open := s.OpenPath
	if open == "" {
		open = "open"
	}
	cmd := exec.CommandContext(ctx, open, args...)
	cmd.Env = append(os.Environ(), req.Env...)
	cmd.Stderr = os.Stderr
	return cmd
}
