//go:build !darwin

package appkit

import (
	"fmt"
	"os"
	"sync"

	"github.com/tmc/fruitbasket/internal/bundle"
	"github.com/tmc/fruitbasket/internal/plist"
)

// Runtime has no window server to talk to. It answers bundle queries from
// the directory the executable sits in and never produces events.
type Runtime struct {
	// Root overrides the bundle directory. Empty means the bundle
	// enclosing os.Executable, if any.
	Root string

	once sync.Once
	root string
	info map[string]any

	dispatch    func(Event)
	terminating bool
}

// New returns a runtime for the running executable.
func New() *Runtime {
	return &Runtime{}
}

func (r *Runtime) CreateApp(dispatch func(Event)) error {
	r.dispatch = dispatch
	return nil
}

func (r *Runtime) FinishLaunching() {}

func (r *Runtime) NextEvent() (EventRef, bool) { return 0, false }

func (r *Runtime) SendEvent(EventRef) {}

func (r *Runtime) UpdateWindows() {}

// Terminate exits the process, which is what AppKit does on darwin.
func (r *Runtime) Terminate() {
	r.terminating = true
	os.Exit(0)
}

// ResourcePath looks for Contents/Resources/name.ext in the bundle.
func (r *Runtime) ResourcePath(name, ext string) (string, bool) {
	r.load()
	if r.root == "" || name == "" {
		return "", false
	}
	p := bundle.Layout{Root: r.root}.Resource(name, ext)
	if fi, err := os.Stat(p); err != nil || fi.IsDir() {
		return "", false
	}
	return p, true
}

// InfoValue reads key from the bundle's Info.plist.
func (r *Runtime) InfoValue(key string) (string, bool) {
	r.load()
	v, ok := r.info[key]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// SetActivationPolicy always fails: there is no Dock to change.
func (r *Runtime) SetActivationPolicy(ActivationPolicy) bool { return false }

// RegisterAppleEvent accepts the registration. No Apple event will arrive.
func (r *Runtime) RegisterAppleEvent(class, id uint32) error { return nil }

func (r *Runtime) load() {
	r.once.Do(func() {
		r.root = r.Root
		if r.root == "" {
			exe, err := os.Executable()
			if err != nil {
				return
			}
			root, ok := bundle.Enclosing(exe)
			if !ok {
				return
			}
			r.root = root
		}
		if dict, err := plist.ReadFile(bundle.Layout{Root: r.root}.InfoPlist()); err == nil {
			r.info = dict
		}
	})
}
