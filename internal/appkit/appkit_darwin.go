//go:build darwin

package appkit

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
)

// AppKit must be used from the main thread.
func init() {
	runtime.LockOSThread()
}

// poolInterval is how many pumps share one autorelease pool.
const poolInterval = 100

// NSApplicationTerminateReply values.
const (
	terminateCancel = 0
	terminateNow    = 1
)

var (
	loadOnce sync.Once
	loadErr  error

	clsNSApplication       objc.Class
	clsNSAutoreleasePool   objc.Class
	clsNSBundle            objc.Class
	clsNSString            objc.Class
	clsNSAppleEventManager objc.Class
	selSharedApplication   objc.SEL
	selSharedAppleEventMgr objc.SEL
	selMainBundle          objc.SEL
	selNew                 objc.SEL
	selDrain               objc.SEL
	selStringWithUTF8      objc.SEL
	selAlloc               objc.SEL
	selInitWithUTF8        objc.SEL
	selRelease             objc.SEL
	selUTF8String          objc.SEL
	selSetDelegate         objc.SEL
	selFinishLaunching     objc.SEL
	selNextEvent           objc.SEL
	selSendEvent           objc.SEL
	selUpdateWindows       objc.SEL
	selTerminate           objc.SEL
	selSetActivationPolicy objc.SEL
	selDeactivate          objc.SEL
	selActivateIgnoring    objc.SEL
	selSetEventHandler     objc.SEL
	selHandleEvent         objc.SEL
	selEventClass          objc.SEL
	selEventID             objc.SEL
	selParamDescriptor     objc.SEL
	selStringValue         objc.SEL
	selPathForResource     objc.SEL
	selObjectForInfoKey    objc.SEL
	selIsKindOfClass       objc.SEL
	selDescription         objc.SEL
	selBundleIdentifier    objc.SEL
)

func load() error {
	loadOnce.Do(func() {
		for _, fw := range []string{
			"/System/Library/Frameworks/Foundation.framework/Foundation",
			"/System/Library/Frameworks/AppKit.framework/AppKit",
		} {
			if _, err := purego.Dlopen(fw, purego.RTLD_LAZY|purego.RTLD_GLOBAL); err != nil {
				loadErr = fmt.Errorf("load %s: %w", fw, err)
				return
			}
		}

		clsNSApplication = objc.GetClass("NSApplication")
		clsNSAutoreleasePool = objc.GetClass("NSAutoreleasePool")
		clsNSBundle = objc.GetClass("NSBundle")
		clsNSString = objc.GetClass("NSString")
		clsNSAppleEventManager = objc.GetClass("NSAppleEventManager")

		selSharedApplication = objc.RegisterName("sharedApplication")
		selSharedAppleEventMgr = objc.RegisterName("sharedAppleEventManager")
		selMainBundle = objc.RegisterName("mainBundle")
		selNew = objc.RegisterName("new")
		selDrain = objc.RegisterName("drain")
		selStringWithUTF8 = objc.RegisterName("stringWithUTF8String:")
		selAlloc = objc.RegisterName("alloc")
		selInitWithUTF8 = objc.RegisterName("initWithUTF8String:")
		selRelease = objc.RegisterName("release")
		selUTF8String = objc.RegisterName("UTF8String")
		selSetDelegate = objc.RegisterName("setDelegate:")
		selFinishLaunching = objc.RegisterName("finishLaunching")
		selNextEvent = objc.RegisterName("nextEventMatchingMask:untilDate:inMode:dequeue:")
		selSendEvent = objc.RegisterName("sendEvent:")
		selUpdateWindows = objc.RegisterName("updateWindows")
		selTerminate = objc.RegisterName("terminate:")
		selSetActivationPolicy = objc.RegisterName("setActivationPolicy:")
		selDeactivate = objc.RegisterName("deactivate")
		selActivateIgnoring = objc.RegisterName("activateIgnoringOtherApps:")
		selSetEventHandler = objc.RegisterName("setEventHandler:andSelector:forEventClass:andEventID:")
		selHandleEvent = objc.RegisterName(SelHandleEvent)
		selEventClass = objc.RegisterName("eventClass")
		selEventID = objc.RegisterName("eventID")
		selParamDescriptor = objc.RegisterName("paramDescriptorForKeyword:")
		selStringValue = objc.RegisterName("stringValue")
		selPathForResource = objc.RegisterName("pathForResource:ofType:")
		selObjectForInfoKey = objc.RegisterName("objectForInfoDictionaryKey:")
		selIsKindOfClass = objc.RegisterName("isKindOfClass:")
		selDescription = objc.RegisterName("description")
		selBundleIdentifier = objc.RegisterName("bundleIdentifier")

		if clsNSApplication == 0 || clsNSAppleEventManager == 0 {
			loadErr = fmt.Errorf("AppKit classes not found")
		}
	})
	return loadErr
}

// Runtime is the NSApplication-backed runtime.
type Runtime struct {
	app      objc.ID
	pool     objc.ID
	delegate objc.ID
	runMode  objc.ID
	pumps    int

	dispatch    func(Event)
	terminating bool
}

// New returns an uninitialized runtime. CreateApp must be called before
// anything else.
func New() *Runtime {
	return &Runtime{}
}

// CreateApp creates the shared NSApplication, the first autorelease pool
// and the delegate that forwards callbacks to dispatch.
func (r *Runtime) CreateApp(dispatch func(Event)) error {
	if err := load(); err != nil {
		return err
	}
	r.app = objc.ID(clsNSApplication).Send(selSharedApplication)
	if r.app == 0 {
		return fmt.Errorf("failed to get NSApplication sharedApplication")
	}
	r.pool = objc.ID(clsNSAutoreleasePool).Send(selNew)
	// The mode outlives every pool drained by UpdateWindows.
	r.runMode = newString("kCFRunLoopDefaultMode")

	cls, err := delegateClass()
	if err != nil {
		return err
	}
	r.delegate = objc.ID(cls).Send(selNew)
	r.dispatch = dispatch
	delegates.Store(r.delegate, r)
	return nil
}

// FinishLaunching installs the delegate and calls finishLaunching.
func (r *Runtime) FinishLaunching() {
	r.app.Send(selSetDelegate, r.delegate)
	r.app.Send(selFinishLaunching)
}

// NextEvent dequeues one pending event without waiting.
func (r *Runtime) NextEvent() (EventRef, bool) {
	// A nil untilDate makes the call return immediately.
	ev := r.app.Send(selNextEvent, uint64(math.MaxUint64), objc.ID(0), r.runMode, true)
	return EventRef(ev), ev != 0
}

// SendEvent dispatches ev through NSApplication.
func (r *Runtime) SendEvent(ev EventRef) {
	r.app.Send(selSendEvent, objc.ID(ev))
}

// UpdateWindows ends a pump: windows are updated and the autorelease pool
// is recycled every poolInterval pumps.
func (r *Runtime) UpdateWindows() {
	r.app.Send(selUpdateWindows)
	r.pumps++
	if r.pumps%poolInterval == 0 {
		r.pool.Send(selDrain)
		r.pool = objc.ID(clsNSAutoreleasePool).Send(selNew)
	}
}

// Terminate asks AppKit to quit. AppKit runs applicationWillTerminate
// observers and exits the process.
func (r *Runtime) Terminate() {
	r.terminating = true
	r.app.Send(selTerminate, objc.ID(0))
}

// ResourcePath asks the main bundle for name.ext.
func (r *Runtime) ResourcePath(name, ext string) (string, bool) {
	if err := load(); err != nil {
		return "", false
	}
	bundle := objc.ID(clsNSBundle).Send(selMainBundle)
	path := goString(bundle.Send(selPathForResource, nsString(name), nsString(ext)))
	return path, path != ""
}

// InfoValue returns the main bundle's Info.plist entry for key. Values that
// are not strings are rendered with -description.
func (r *Runtime) InfoValue(key string) (string, bool) {
	if err := load(); err != nil {
		return "", false
	}
	bundle := objc.ID(clsNSBundle).Send(selMainBundle)
	if key == "CFBundleIdentifier" {
		if id := goString(bundle.Send(selBundleIdentifier)); id != "" {
			return id, true
		}
	}
	v := bundle.Send(selObjectForInfoKey, nsString(key))
	if v == 0 {
		return "", false
	}
	if !objc.Send[bool](v, selIsKindOfClass, clsNSString) {
		v = v.Send(selDescription)
	}
	return goString(v), true
}

// SetActivationPolicy reports whether AppKit accepted the policy.
//
// Switching to PolicyRegular deactivates the app first and activates it
// afterwards; otherwise the menu bar does not appear.
func (r *Runtime) SetActivationPolicy(p ActivationPolicy) bool {
	if p != PolicyRegular {
		return objc.Send[bool](r.app, selSetActivationPolicy, int(p))
	}
	r.app.Send(selDeactivate)
	ok := objc.Send[bool](r.app, selSetActivationPolicy, int(p))
	r.app.Send(selActivateIgnoring, true)
	return ok
}

// RegisterAppleEvent routes the given Apple event to the delegate's
// handleEvent:withReplyEvent:.
func (r *Runtime) RegisterAppleEvent(class, id uint32) error {
	if r.delegate == 0 {
		return fmt.Errorf("register apple event before CreateApp")
	}
	mgr := objc.ID(clsNSAppleEventManager).Send(selSharedAppleEventMgr)
	if mgr == 0 {
		return fmt.Errorf("failed to get NSAppleEventManager")
	}
	mgr.Send(selSetEventHandler, r.delegate, selHandleEvent, class, id)
	return nil
}

// delegates maps delegate instances back to their runtime.
var delegates sync.Map // objc.ID -> *Runtime

var (
	delegateOnce  sync.Once
	delegateCls   objc.Class
	delegateClsEr error
)

func delegateClass() (objc.Class, error) {
	delegateOnce.Do(func() {
		delegateCls, delegateClsEr = objc.RegisterClass(
			"FruitbasketAppDelegate",
			objc.GetClass("NSObject"),
			nil,
			nil,
			[]objc.MethodDef{
				{Cmd: objc.RegisterName(SelWillFinishLaunching), Fn: notificationHandler(SelWillFinishLaunching)},
				{Cmd: objc.RegisterName(SelDidFinishLaunching), Fn: notificationHandler(SelDidFinishLaunching)},
				{Cmd: objc.RegisterName(SelShouldTerminate), Fn: shouldTerminate},
				{Cmd: objc.RegisterName(SelHandleEvent), Fn: handleAppleEvent},
				{Cmd: objc.RegisterName(SelOpenFile), Fn: openFile},
			},
		)
	})
	return delegateCls, delegateClsEr
}

func lookup(self objc.ID) *Runtime {
	v, ok := delegates.Load(self)
	if !ok {
		return nil
	}
	return v.(*Runtime)
}

func (r *Runtime) emit(ev Event) {
	if r != nil && r.dispatch != nil {
		r.dispatch(ev)
	}
}

func notificationHandler(method string) func(objc.ID, objc.SEL, objc.ID) {
	return func(self objc.ID, _ objc.SEL, note objc.ID) {
		lookup(self).emit(Event{Method: method, Object: uintptr(note)})
	}
}

// shouldTerminate lets Terminate through and turns any other quit request
// (Dock menu, Cmd-Q) into an event for the pump loop.
func shouldTerminate(self objc.ID, _ objc.SEL, app objc.ID) uint {
	r := lookup(self)
	if r == nil || r.terminating {
		return terminateNow
	}
	r.emit(Event{Method: SelShouldTerminate, Object: uintptr(app)})
	return terminateCancel
}

func handleAppleEvent(self objc.ID, _ objc.SEL, event, reply objc.ID) {
	ev := Event{Method: SelHandleEvent, Object: uintptr(event)}
	if event != 0 {
		ev.Class = objc.Send[uint32](event, selEventClass)
		ev.ID = objc.Send[uint32](event, selEventID)
		if param := event.Send(selParamDescriptor, KeyDirectObject); param != 0 {
			ev.DirectObject = goString(param.Send(selStringValue))
		}
	}
	lookup(self).emit(ev)
}

func openFile(self objc.ID, _ objc.SEL, app, file objc.ID) bool {
	lookup(self).emit(Event{Method: SelOpenFile, Object: uintptr(app), File: goString(file)})
	return true
}

// nsString creates an autoreleased NSString from a Go string.
func nsString(s string) objc.ID {
	b := append([]byte(s), 0)
	return objc.ID(clsNSString).Send(selStringWithUTF8, uintptr(unsafe.Pointer(&b[0])))
}

// newString creates an NSString owned by the caller. It is not added to
// any autorelease pool and must be released explicitly.
func newString(s string) objc.ID {
	b := append([]byte(s), 0)
	return objc.ID(clsNSString).Send(selAlloc).Send(selInitWithUTF8, uintptr(unsafe.Pointer(&b[0])))
}

// goString extracts a Go string from an NSString.
func goString(id objc.ID) string {
	if id == 0 {
		return ""
	}
	ptr := objc.Send[*byte](id, selUTF8String)
	if ptr == nil {
		return ""
	}
	return unsafe.String(ptr, cstrlen(ptr))
}

func cstrlen(p *byte) int {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return n
}
