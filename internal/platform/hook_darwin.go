//go:build darwin

package platform

/*
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

extern CGEventRef inputtapTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static CGEventMask inputtapMask(void) {
	CGEventMask mask = 0;
	CGEventType kinds[] = {
		kCGEventKeyDown, kCGEventKeyUp, kCGEventFlagsChanged,
		kCGEventLeftMouseDown, kCGEventLeftMouseUp,
		kCGEventRightMouseDown, kCGEventRightMouseUp,
		kCGEventOtherMouseDown, kCGEventOtherMouseUp,
		kCGEventMouseMoved,
		kCGEventLeftMouseDragged, kCGEventRightMouseDragged, kCGEventOtherMouseDragged,
		kCGEventScrollWheel,
	};
	for (size_t i = 0; i < sizeof(kinds) / sizeof(kinds[0]); i++) {
		mask |= ((CGEventMask)1) << kinds[i];
	}
	return mask;
}

static CFMachPortRef inputtapCreateTap(uintptr_t handle) {
	return CGEventTapCreate(kCGSessionEventTap,
	                        kCGHeadInsertEventTap,
	                        kCGEventTapOptionDefault,
	                        inputtapMask(),
	                        inputtapTapCallback,
	                        (void *)handle);
}

static void inputtapRunSlice(void) {
	CFRunLoopRunInMode(kCFRunLoopDefaultMode, 0.25, false);
}

static size_t inputtapKeyText(CGEventRef event, UniChar *buf, size_t max) {
	UniCharCount n = 0;
	CGEventKeyboardGetUnicodeString(event, max, &n, buf);
	return n;
}
*/
import "C"

import (
	"runtime"
	"runtime/cgo"
	"sync"
	"sync/atomic"
	"unicode/utf16"
	"unsafe"

	"github.com/frudas24/inputtap/internal/input"
)

// darwinHook installs a CGEventTap serviced by its own run-loop thread.
type darwinHook struct{}

// darwinTap is one live CGEventTap.
type darwinTap struct {
	cb      Callback
	handle  cgo.Handle
	port    C.CFMachPortRef
	loop    C.CFRunLoopRef
	closing atomic.Bool
	ready   chan error
	done    chan struct{}
	once    sync.Once
}

// Install creates the tap and blocks until its run loop is serviced.
func (darwinHook) Install(cb Callback) (Handle, error) {
	t := &darwinTap{
		cb:    cb,
		ready: make(chan error, 1),
		done:  make(chan struct{}),
	}
	t.handle = cgo.NewHandle(t)
	go t.run()
	if err := <-t.ready; err != nil {
		<-t.done
		t.handle.Delete()
		return nil, err
	}
	return t, nil
}

// run owns the tap for its whole life on a locked OS thread.
func (t *darwinTap) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	port := C.inputtapCreateTap(C.uintptr_t(t.handle))
	if port == 0 {
		t.ready <- ErrHookRefused
		return
	}
	source := C.CFMachPortCreateRunLoopSource(C.kCFAllocatorDefault, port, 0)
	if source == 0 {
		C.CFMachPortInvalidate(port)
		C.CFRelease(C.CFTypeRef(port))
		t.ready <- ErrHookRefused
		return
	}
	t.port = port
	t.loop = C.CFRunLoopGetCurrent()
	C.CFRunLoopAddSource(t.loop, source, C.kCFRunLoopCommonModes)
	C.CGEventTapEnable(port, C.bool(true))
	t.ready <- nil

	for !t.closing.Load() {
		C.inputtapRunSlice()
	}

	C.CGEventTapEnable(port, C.bool(false))
	C.CFRunLoopRemoveSource(t.loop, source, C.kCFRunLoopCommonModes)
	C.CFRelease(C.CFTypeRef(source))
	C.CFMachPortInvalidate(port)
	C.CFRelease(C.CFTypeRef(port))
}

// Close stops the run loop and waits for the tap to be released.
func (t *darwinTap) Close() error {
	t.once.Do(func() {
		t.closing.Store(true)
		C.CFRunLoopStop(t.loop)
		<-t.done
		t.handle.Delete()
	})
	return nil
}

//export inputtapTapCallback
func inputtapTapCallback(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	t, ok := cgo.Handle(uintptr(userInfo)).Value().(*darwinTap)
	if !ok {
		return event
	}
	switch eventType {
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		if !t.closing.Load() {
			C.CGEventTapEnable(t.port, C.bool(true))
		}
		return event
	}
	raw := darwinEvent{kind: darwinKind(eventType), ref: event}
	if t.cb(raw) == Swallow {
		return 0
	}
	return event
}

// darwinKind classifies a CGEventType.
func darwinKind(t C.CGEventType) input.RawKind {
	switch t {
	case C.kCGEventKeyDown:
		return input.RawKeyDown
	case C.kCGEventKeyUp:
		return input.RawKeyUp
	case C.kCGEventFlagsChanged:
		return input.RawFlagsChanged
	case C.kCGEventLeftMouseDown:
		return input.RawLeftMouseDown
	case C.kCGEventLeftMouseUp:
		return input.RawLeftMouseUp
	case C.kCGEventRightMouseDown:
		return input.RawRightMouseDown
	case C.kCGEventRightMouseUp:
		return input.RawRightMouseUp
	case C.kCGEventOtherMouseDown:
		return input.RawOtherMouseDown
	case C.kCGEventOtherMouseUp:
		return input.RawOtherMouseUp
	case C.kCGEventMouseMoved:
		return input.RawMouseMoved
	case C.kCGEventLeftMouseDragged:
		return input.RawLeftMouseDragged
	case C.kCGEventRightMouseDragged:
		return input.RawRightMouseDragged
	case C.kCGEventOtherMouseDragged:
		return input.RawOtherMouseDragged
	case C.kCGEventScrollWheel:
		return input.RawScrollWheel
	default:
		return input.RawUnknown
	}
}

// darwinEvent reads fields from a CGEventRef owned by the OS.
type darwinEvent struct {
	kind input.RawKind
	ref  C.CGEventRef
}

// Kind returns the classified event type.
func (e darwinEvent) Kind() input.RawKind { return e.kind }

// Timestamp returns the event time in nanoseconds since boot.
func (e darwinEvent) Timestamp() uint64 { return uint64(C.CGEventGetTimestamp(e.ref)) }

// KeyCode returns the virtual key code.
func (e darwinEvent) KeyCode() int64 {
	return int64(C.CGEventGetIntegerValueField(e.ref, C.kCGKeyboardEventKeycode))
}

// Flags returns the raw CGEventFlags.
func (e darwinEvent) Flags() uint64 { return uint64(C.CGEventGetFlags(e.ref)) }

// Character decodes the text produced by a key event.
func (e darwinEvent) Character() string {
	var buf [8]C.UniChar
	n := int(C.inputtapKeyText(e.ref, &buf[0], C.size_t(len(buf))))
	if n <= 0 {
		return ""
	}
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = uint16(buf[i])
	}
	return string(utf16.Decode(units))
}

// Location returns the global cursor position of the event.
func (e darwinEvent) Location() (float64, float64) {
	p := C.CGEventGetLocation(e.ref)
	return float64(p.x), float64(p.y)
}

// ClickState returns the click count of a button event.
func (e darwinEvent) ClickState() int64 {
	return int64(C.CGEventGetIntegerValueField(e.ref, C.kCGMouseEventClickState))
}

// ScrollDelta returns the fixed-point scroll deltas per axis. Axis1 is the
// vertical wheel, matching the windows hook's deltaY.
func (e darwinEvent) ScrollDelta() (float64, float64, float64) {
	dy := float64(C.CGEventGetDoubleValueField(e.ref, C.kCGScrollWheelEventFixedPtDeltaAxis1))
	dx := float64(C.CGEventGetDoubleValueField(e.ref, C.kCGScrollWheelEventFixedPtDeltaAxis2))
	dz := float64(C.CGEventGetDoubleValueField(e.ref, C.kCGScrollWheelEventFixedPtDeltaAxis3))
	return dx, dy, dz
}
