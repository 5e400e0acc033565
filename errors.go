package fruitbasket

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps one of them and
// can be matched with errors.Is.
var (
	// ErrPermissionDenied: neither the preferred install directory nor the
	// temp fallback is writable.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrBundleCreation: the bundle could not be written, or the running
	// macOS is older than the bundle's LSMinimumSystemVersion.
	ErrBundleCreation = errors.New("bundle creation failed")

	// ErrRelaunch: the bundle exists but could not be started.
	ErrRelaunch = errors.New("relaunch failed")

	// ErrRelaunchLoop: the process was started by a relaunch but is still
	// not running from a valid bundle.
	ErrRelaunchLoop = errors.New("relaunch loop")

	// ErrRelaunchDisabled: the process is not bundled and
	// FRUITBASKET_NO_RELAUNCH is set.
	ErrRelaunchDisabled = errors.New("relaunch disabled")

	// ErrDoubleInit is the panic value of a second Init in one process.
	ErrDoubleInit = errors.New("application environment already initialized")

	// ErrStopped: Run returned because a Stopper fired.
	ErrStopped = errors.New("stopped")

	// ErrConfig: a FRUITBASKET_* environment variable could not be parsed.
	ErrConfig = errors.New("invalid configuration")

	// ErrAppKit: AppKit rejected a request, such as an Apple event
	// registration.
	ErrAppKit = errors.New("appkit request failed")

	// ErrUnsupportedPlatform: the operation needs macOS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Error represents a fruitbasket error with additional context and
// actionable guidance.
type Error struct {
	Op   string // Operation that failed (e.g., "create bundle", "relaunch")
	Err  error  // Underlying error, wrapping one of the Err* kinds
	Help string // Actionable guidance for the user
}

func (e *Error) Error() string {
	if e.Help != "" {
		return fmt.Sprintf("fruitbasket: %s: %v\n  hint: %s", e.Op, e.Err, e.Help)
	}
	return fmt.Sprintf("fruitbasket: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps cause in kind. A nil cause yields kind alone.
func newError(op string, kind, cause error, help string) *Error {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &Error{Op: op, Err: err, Help: help}
}
