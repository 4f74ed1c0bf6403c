// Package input defines the normalized input event model and its vocabulary.
package input

import "fmt"

// KeyboardKind names a keyboard event kind on the wire.
type KeyboardKind string

const (
	// KeyDown is a key press.
	KeyDown KeyboardKind = "keyDown"
	// KeyUp is a key release.
	KeyUp KeyboardKind = "keyUp"
	// ModifiersChanged is a change of the modifier state without a character key.
	ModifiersChanged KeyboardKind = "flagsChanged"
)

// ParseKeyboardKind resolves a keyboard kind name.
func ParseKeyboardKind(name string) (KeyboardKind, error) {
	switch KeyboardKind(name) {
	case KeyDown, KeyUp, ModifiersChanged:
		return KeyboardKind(name), nil
	default:
		return "", fmt.Errorf("%w: keyboard kind %q", ErrInvalidEventKind, name)
	}
}

// PointerKind names a pointer event kind on the wire.
type PointerKind string

const (
	LeftMouseDown     PointerKind = "leftMouseDown"
	LeftMouseUp       PointerKind = "leftMouseUp"
	RightMouseDown    PointerKind = "rightMouseDown"
	RightMouseUp      PointerKind = "rightMouseUp"
	OtherMouseDown    PointerKind = "otherMouseDown"
	OtherMouseUp      PointerKind = "otherMouseUp"
	MouseMoved        PointerKind = "mouseMoved"
	LeftMouseDragged  PointerKind = "leftMouseDragged"
	RightMouseDragged PointerKind = "rightMouseDragged"
	OtherMouseDragged PointerKind = "otherMouseDragged"
	ScrollWheel       PointerKind = "scrollWheel"
)

// PointerKinds is the closed pointer vocabulary.
var PointerKinds = []PointerKind{
	LeftMouseDown, LeftMouseUp,
	RightMouseDown, RightMouseUp,
	OtherMouseDown, OtherMouseUp,
	MouseMoved,
	LeftMouseDragged, RightMouseDragged, OtherMouseDragged,
	ScrollWheel,
}

// ParsePointerKind resolves a pointer kind name.
func ParsePointerKind(name string) (PointerKind, error) {
	for _, k := range PointerKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: pointer kind %q", ErrInvalidEventKind, name)
}

// Button returns the button identity implied by the kind.
// Motion and scroll report left, as the platform does.
func (k PointerKind) Button() Button {
	switch k {
	case RightMouseDown, RightMouseUp, RightMouseDragged:
		return ButtonRight
	case OtherMouseDown, OtherMouseUp, OtherMouseDragged:
		return ButtonCenter
	default:
		return ButtonLeft
	}
}

// IsDown reports whether the kind is a button press.
func (k PointerKind) IsDown() bool {
	return k == LeftMouseDown || k == RightMouseDown || k == OtherMouseDown
}

// IsUp reports whether the kind is a button release.
func (k PointerKind) IsUp() bool {
	return k == LeftMouseUp || k == RightMouseUp || k == OtherMouseUp
}

// IsDrag reports whether the kind is motion with a button held.
func (k PointerKind) IsDrag() bool {
	return k == LeftMouseDragged || k == RightMouseDragged || k == OtherMouseDragged
}

// Button identifies a pointer button.
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonCenter Button = "center"
)
