package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// DirectLauncher runs the bundle's executable as a child process and
// returns as soon as it has started.
type DirectLauncher struct {
	// Start runs the prepared command. Nil means start and release.
	Start func(*exec.Cmd) error
}

// Launch executes the binary inside the app bundle.
func (d *DirectLauncher) Launch(ctx context.Context, req *Request) error {
	if req.ExecPath == "" {
		return fmt.Errorf("bundle executable path not set")
	}
	if _, err := os.Stat(req.ExecPath); err != nil {
		return fmt.Errorf("bundle executable not found at %s: %w", req.ExecPath, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// The child outlives this process, so it is not tied to ctx.
	cmd := exec.Command(req.ExecPath, req.Args...)
	cmd.Env = append(os.Environ(), req.Env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if req.Debug {
		fmt.Fprintf(os.Stderr, "fruitbasket: executing bundle binary: %v\n", cmd.Args)
	}

	start := d.Start
	if start == nil {
		start = startDetached
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("start bundle process: %w", err)
	}
	return nil
}
