package fruitbasket

import "github.com/tmc/fruitbasket/internal/appkit"

// Event is one delegate callback delivered by the runtime.
type Event = appkit.Event

// EventRef is an opaque native event.
type EventRef = appkit.EventRef

// ActivationPolicy controls Dock and menu bar presence.
type ActivationPolicy = appkit.ActivationPolicy

const (
	PolicyRegular    = appkit.PolicyRegular
	PolicyAccessory  = appkit.PolicyAccessory
	PolicyProhibited = appkit.PolicyProhibited
)

// Delegate selectors callbacks can be registered for.
const (
	SelWillFinishLaunching = appkit.SelWillFinishLaunching
	SelDidFinishLaunching  = appkit.SelDidFinishLaunching
	SelShouldTerminate     = appkit.SelShouldTerminate
	SelHandleEvent         = appkit.SelHandleEvent
	SelOpenFile            = appkit.SelOpenFile
)

// Apple event codes for URL requests.
const (
	KInternetEventClass = appkit.KInternetEventClass
	KAEGetURL           = appkit.KAEGetURL
	KeyDirectObject     = appkit.KeyDirectObject
)

// Runtime is the native application object App drives. The appkit package
// provides the real one; tests substitute fakes.
//
// Events produced while the runtime works (finishing launch, sending an
// event, AppKit calling the delegate) are passed to the dispatch function
// given to CreateApp.
type Runtime interface {
	CreateApp(dispatch func(Event)) error
	FinishLaunching()
	// NextEvent returns the next queued event without waiting.
	NextEvent() (EventRef, bool)
	SendEvent(EventRef)
	UpdateWindows()
	Terminate()
	ResourcePath(name, ext string) (string, bool)
	InfoValue(key string) (string, bool)
	SetActivationPolicy(ActivationPolicy) bool
	RegisterAppleEvent(class, id uint32) error
}

var _ Runtime = (*appkit.Runtime)(nil)
