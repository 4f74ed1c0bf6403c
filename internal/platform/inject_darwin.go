//go:build darwin

package platform

/*
#include <ApplicationServices/ApplicationServices.h>
#include <stdint.h>

static CGEventRef inputtapScrollEvent(int32_t dy, int32_t dx) {
	return CGEventCreateScrollWheelEvent(NULL, kCGScrollEventUnitPixel, 2, dy, dx);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"math"

	"github.com/frudas24/inputtap/internal/input"
)

var errEventCreate = errors.New("CGEvent creation failed")

// darwinPoster posts CGEvents at the HID tap.
type darwinPoster struct {
	flags input.FlagTable
}

var darwinPointerTypes = map[input.PointerKind]C.CGEventType{
	input.LeftMouseDown:     C.kCGEventLeftMouseDown,
	input.LeftMouseUp:       C.kCGEventLeftMouseUp,
	input.RightMouseDown:    C.kCGEventRightMouseDown,
	input.RightMouseUp:      C.kCGEventRightMouseUp,
	input.OtherMouseDown:    C.kCGEventOtherMouseDown,
	input.OtherMouseUp:      C.kCGEventOtherMouseUp,
	input.MouseMoved:        C.kCGEventMouseMoved,
	input.LeftMouseDragged:  C.kCGEventLeftMouseDragged,
	input.RightMouseDragged: C.kCGEventRightMouseDragged,
	input.OtherMouseDragged: C.kCGEventOtherMouseDragged,
}

// darwinButton maps a button identity to a CGMouseButton.
func darwinButton(b input.Button) C.CGMouseButton {
	switch b {
	case input.ButtonRight:
		return C.kCGMouseButtonRight
	case input.ButtonCenter:
		return C.kCGMouseButtonCenter
	default:
		return C.kCGMouseButtonLeft
	}
}

// PostPointer synthesizes one mouse or scroll event at an absolute position.
func (p darwinPoster) PostPointer(req PointerRequest) error {
	point := C.CGPointMake(C.CGFloat(req.X), C.CGFloat(req.Y))
	var event C.CGEventRef
	if req.Kind == input.ScrollWheel {
		event = C.inputtapScrollEvent(C.int32_t(clampInt32(req.DeltaY)), C.int32_t(clampInt32(req.DeltaX)))
		if event == 0 {
			return errEventCreate
		}
		C.CGEventSetLocation(event, point)
	} else {
		kind, ok := darwinPointerTypes[req.Kind]
		if !ok {
			return fmt.Errorf("%w: %s", input.ErrInvalidEventKind, req.Kind)
		}
		event = C.CGEventCreateMouseEvent(0, kind, point, darwinButton(req.Button))
		if event == 0 {
			return errEventCreate
		}
		if req.Kind.IsDown() || req.Kind.IsUp() {
			clicks := req.ClickCount
			if clicks < 1 {
				clicks = 1
			}
			C.CGEventSetIntegerValueField(event, C.kCGMouseEventClickState, C.int64_t(clicks))
		}
	}
	defer C.CFRelease(C.CFTypeRef(event))
	C.CGEventPost(C.kCGHIDEventTap, event)
	return nil
}

// PostKeyboard synthesizes one key event carrying the requested modifiers.
func (p darwinPoster) PostKeyboard(req KeyboardRequest) error {
	down := req.Kind != input.KeyUp
	event := C.CGEventCreateKeyboardEvent(0, C.CGKeyCode(req.Code), C.bool(down))
	if event == 0 {
		return errEventCreate
	}
	defer C.CFRelease(C.CFTypeRef(event))
	if req.Kind == input.ModifiersChanged {
		C.CGEventSetType(event, C.kCGEventFlagsChanged)
	}
	C.CGEventSetFlags(event, C.CGEventFlags(p.flags.Encode(req.Modifiers)))
	C.CGEventPost(C.kCGHIDEventTap, event)
	return nil
}

// clampInt32 rounds a delta into the int32 range.
func clampInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(math.Round(v))
	}
}
