package fruitbasket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tmc/fruitbasket/internal/appkit"
	"github.com/tmc/fruitbasket/internal/plist"
)

// MaxEventsPerPump bounds the events one PumpOnce dispatches.
const MaxEventsPerPump = 64

// idleSleep is how long Run waits after a pump that found nothing to do.
const idleSleep = 50 * time.Millisecond

// PumpKind classifies a PumpOnce call.
type PumpKind int

const (
	// Idle: no event was pending.
	Idle PumpKind = iota
	// EventsProcessed: at least one event was dispatched.
	EventsProcessed
	// ShouldTerminate: the user asked the app to quit (Dock menu, Cmd-Q).
	// The quit was held back; call Terminate to honor it.
	ShouldTerminate
)

func (k PumpKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case EventsProcessed:
		return "events-processed"
	case ShouldTerminate:
		return "should-terminate"
	}
	return "unknown"
}

// PumpResult reports one PumpOnce call.
type PumpResult struct {
	Kind   PumpKind
	Events int
}

type runKind int

const (
	runOnce runKind = iota
	runForever
	runFor
)

// RunPeriod bounds Run.
type RunPeriod struct {
	kind runKind
	d    time.Duration
}

var (
	// RunOnce pumps a single time.
	RunOnce = RunPeriod{kind: runOnce}
	// RunForever pumps until stopped, cancelled or terminated.
	RunForever = RunPeriod{kind: runForever}
)

// RunFor pumps for about d.
func RunFor(d time.Duration) RunPeriod {
	return RunPeriod{kind: runFor, d: d}
}

// Stopper interrupts Run from any goroutine.
type Stopper struct {
	ch chan struct{}
}

// Stop makes the current or next Run return ErrStopped. It never blocks;
// stops issued while one is already pending are merged.
func (s Stopper) Stop() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// CallbackKey names what a callback fires for: a delegate selector or a
// native object.
type CallbackKey struct {
	Method string
	Object uintptr
}

// MethodKey keys a callback by delegate selector, e.g. SelOpenFile.
func MethodKey(selector string) CallbackKey {
	return CallbackKey{Method: selector}
}

// ObjectKey keys a callback by the object an event carries.
func ObjectKey(object uintptr) CallbackKey {
	return CallbackKey{Object: object}
}

// initialized guards the one App per process.
var initialized atomic.Bool

// App is the process's application environment. All methods except
// Stopper().Stop must be called from the main goroutine.
type App struct {
	rt        Runtime
	launched  bool
	callbacks map[CallbackKey]func(Event)
	stop      chan struct{}

	quitRequested bool
	terminated    bool
	terminateOnce sync.Once
}

// Init sets up the native application object. It must be called once, from
// main, and panics with ErrDoubleInit on a second call.
func Init() *App {
	return InitWithRuntime(appkit.New())
}

// InitWithRuntime is Init with a given runtime.
func InitWithRuntime(rt Runtime) *App {
	if !initialized.CompareAndSwap(false, true) {
		panic(ErrDoubleInit)
	}
	a := &App{
		rt:        rt,
		callbacks: make(map[CallbackKey]func(Event)),
		stop:      make(chan struct{}, 1),
	}
	if err := rt.CreateApp(a.dispatch); err != nil {
		panic(newError("init", ErrUnsupportedPlatform, err, "fruitbasket needs AppKit"))
	}
	return a
}

// PumpOnce dispatches pending events without waiting for new ones. The
// first call finishes launching the application.
func (a *App) PumpOnce() PumpResult {
	if !a.launched {
		a.launched = true
		a.rt.FinishLaunching()
	}

	n := 0
	for n < MaxEventsPerPump {
		ev, ok := a.rt.NextEvent()
		if !ok {
			break
		}
		a.rt.SendEvent(ev)
		n++
	}
	a.rt.UpdateWindows()

	switch {
	case a.quitRequested:
		a.quitRequested = false
		return PumpResult{Kind: ShouldTerminate, Events: n}
	case n > 0:
		return PumpResult{Kind: EventsProcessed, Events: n}
	}
	return PumpResult{Kind: Idle}
}

// Run pumps events for period. It returns ErrStopped when a Stopper fires,
// ctx.Err() when ctx is done, and nil when the period ends or termination
// was requested.
func (a *App) Run(ctx context.Context, period RunPeriod) error {
	var deadline time.Time
	if period.kind == runFor {
		deadline = time.Now().Add(period.d)
	}

	for {
		select {
		case <-a.stop:
			return ErrStopped
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res := a.PumpOnce()
		switch {
		case res.Kind == ShouldTerminate, a.terminated:
			return nil
		case period.kind == runOnce:
			return nil
		case period.kind == runFor && !time.Now().Before(deadline):
			return nil
		}
		if res.Kind != Idle {
			continue
		}

		wait := idleSleep
		if period.kind == runFor {
			wait = min(wait, time.Until(deadline))
		}
		timer := time.NewTimer(wait)
		select {
		case <-a.stop:
			timer.Stop()
			return ErrStopped
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Stopper returns a handle that interrupts Run.
func (a *App) Stopper() Stopper {
	return Stopper{ch: a.stop}
}

// Terminate shuts the application down. On macOS AppKit ends the process.
// Further calls do nothing.
func (a *App) Terminate() {
	a.terminateOnce.Do(func() {
		a.terminated = true
		Logger().Debug("terminating application")
		a.rt.Terminate()
	})
}

// BundleResourcePath returns the path of name.ext in the bundle's
// Resources, or false when there is none.
func (a *App) BundleResourcePath(name, ext string) (string, bool) {
	return a.rt.ResourcePath(name, ext)
}

// Identifier returns CFBundleIdentifier, or "" when not bundled.
func (a *App) Identifier() string {
	v, _ := a.rt.InfoValue(plist.KeyIdentifier)
	return v
}

// Version returns CFBundleShortVersionString, falling back to
// CFBundleVersion.
func (a *App) Version() string {
	if v, ok := a.rt.InfoValue(plist.KeyShortVersion); ok && v != "" {
		return v
	}
	v, _ := a.rt.InfoValue(plist.KeyVersion)
	return v
}

// InfoValue returns an Info.plist value as a string.
func (a *App) InfoValue(key string) (string, bool) {
	return a.rt.InfoValue(key)
}

// RegisterCallback runs fn for events matching key, replacing any earlier
// callback for the same key.
func (a *App) RegisterCallback(key CallbackKey, fn func(Event)) {
	if fn == nil {
		delete(a.callbacks, key)
		return
	}
	a.callbacks[key] = fn
}

// RegisterAppleEvent asks for Apple events of class and id. They arrive as
// SelHandleEvent events; see ParseURLEvent.
func (a *App) RegisterAppleEvent(class, id uint32) error {
	if err := a.rt.RegisterAppleEvent(class, id); err != nil {
		return newError("register apple event", ErrAppKit, err, "")
	}
	return nil
}

// SetActivationPolicy changes Dock and menu bar presence. It reports whether
// the policy was applied.
func (a *App) SetActivationPolicy(p ActivationPolicy) bool {
	ok := a.rt.SetActivationPolicy(p)
	if !ok {
		Logger().Debug("activation policy not applied", "policy", p)
	}
	return ok
}

func (a *App) dispatch(ev Event) {
	if ev.Method == SelShouldTerminate {
		a.quitRequested = true
	}
	if fn, ok := a.callbacks[MethodKey(ev.Method)]; ok {
		fn(ev)
	}
	if ev.Object != 0 {
		if fn, ok := a.callbacks[ObjectKey(ev.Object)]; ok {
			fn(ev)
		}
	}
}
