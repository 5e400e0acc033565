// Package appkit drives NSApplication for a Go program.
//
// On darwin the Runtime talks to the Objective-C runtime through purego.
// Elsewhere it is a stand-in that serves resources and Info.plist values
// from the enclosing bundle directory and reports no events, so code built
// on it still runs and can be tested.
package appkit

import "fmt"

// ActivationPolicy mirrors NSApplicationActivationPolicy.
type ActivationPolicy int

const (
	// PolicyRegular shows a Dock icon and menu bar.
	PolicyRegular ActivationPolicy = 0
	// PolicyAccessory can show windows but has no Dock icon.
	PolicyAccessory ActivationPolicy = 1
	// PolicyProhibited has no UI at all.
	PolicyProhibited ActivationPolicy = 2
)

func (p ActivationPolicy) String() string {
	switch p {
	case PolicyRegular:
		return "regular"
	case PolicyAccessory:
		return "accessory"
	case PolicyProhibited:
		return "prohibited"
	}
	return fmt.Sprintf("ActivationPolicy(%d)", int(p))
}

// Apple event codes for URL open requests (see AE/AERegistry.h).
const (
	KInternetEventClass uint32 = 0x4755524c // 'GURL'
	KAEGetURL           uint32 = 0x4755524c // 'GURL'
	KeyDirectObject     uint32 = 0x2d2d2d2d // '----'
)

// Delegate selectors forwarded as events.
const (
	SelWillFinishLaunching = "applicationWillFinishLaunching:"
	SelDidFinishLaunching  = "applicationDidFinishLaunching:"
	SelShouldTerminate     = "applicationShouldTerminate:"
	SelHandleEvent         = "handleEvent:withReplyEvent:"
	SelOpenFile            = "application:openFile:"
)

// EventRef is an opaque NSEvent pointer.
type EventRef uintptr

// Event is one delegate callback.
type Event struct {
	// Method is the selector that fired.
	Method string

	// Object is the Objective-C argument of the callback: the notification,
	// the Apple event descriptor, or the application.
	Object uintptr

	// Class, ID and DirectObject describe an Apple event delivered through
	// handleEvent:withReplyEvent:. DirectObject is the string value of the
	// keyDirectObject parameter.
	Class        uint32
	ID           uint32
	DirectObject string

	// File is the path of an application:openFile: request.
	File string
}
