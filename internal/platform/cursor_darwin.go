//go:build darwin

package platform

/*
#import <Cocoa/Cocoa.h>
#include <stdint.h>

static uintptr_t inputtapCurrentCursor(void) {
	NSCursor *cursor = [NSCursor currentCursor];
	if (cursor == nil) {
		return 0;
	}
	return (uintptr_t)(__bridge_retained void *)cursor;
}

static void inputtapSetCursor(uintptr_t ref) {
	if (ref == 0) {
		return;
	}
	NSCursor *cursor = (__bridge_transfer NSCursor *)(void *)ref;
	[cursor set];
}

static void inputtapHideCursor(void) {
	[NSCursor hide];
}

static void inputtapShowCursor(void) {
	[NSCursor unhide];
}
*/
import "C"

// darwinDisplay drives NSCursor. AppKit requires the main thread.
type darwinDisplay struct{}

// CurrentCursor retains and returns the active NSCursor.
func (darwinDisplay) CurrentCursor() Cursor {
	return Cursor(C.inputtapCurrentCursor())
}

// HideCursor hides the cursor until a matching ShowCursor.
func (darwinDisplay) HideCursor() {
	C.inputtapHideCursor()
}

// ShowCursor balances one HideCursor.
func (darwinDisplay) ShowCursor() {
	C.inputtapShowCursor()
}

// SetCursor applies c and releases the reference taken by CurrentCursor.
func (darwinDisplay) SetCursor(c Cursor) {
	C.inputtapSetCursor(C.uintptr_t(c))
}
