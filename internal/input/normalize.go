// Package input defines the normalized input event model and its vocabulary.
package input

import "math"

// RawKind classifies a low-level platform event before normalization.
type RawKind int

const (
	RawUnknown RawKind = iota
	RawKeyDown
	RawKeyUp
	RawFlagsChanged
	RawLeftMouseDown
	RawLeftMouseUp
	RawRightMouseDown
	RawRightMouseUp
	RawOtherMouseDown
	RawOtherMouseUp
	RawMouseMoved
	RawLeftMouseDragged
	RawRightMouseDragged
	RawOtherMouseDragged
	RawScrollWheel
)

var rawKeyboardKinds = map[RawKind]KeyboardKind{
	RawKeyDown:      KeyDown,
	RawKeyUp:        KeyUp,
	RawFlagsChanged: ModifiersChanged,
}

var rawPointerKinds = map[RawKind]PointerKind{
	RawLeftMouseDown:     LeftMouseDown,
	RawLeftMouseUp:       LeftMouseUp,
	RawRightMouseDown:    RightMouseDown,
	RawRightMouseUp:      RightMouseUp,
	RawOtherMouseDown:    OtherMouseDown,
	RawOtherMouseUp:      OtherMouseUp,
	RawMouseMoved:        MouseMoved,
	RawLeftMouseDragged:  LeftMouseDragged,
	RawRightMouseDragged: RightMouseDragged,
	RawOtherMouseDragged: OtherMouseDragged,
	RawScrollWheel:       ScrollWheel,
}

// Category reports the category of a raw kind; ok is false for unknown kinds.
func (k RawKind) Category() (Category, bool) {
	if _, ok := rawKeyboardKinds[k]; ok {
		return CategoryKeyboard, true
	}
	if _, ok := rawPointerKinds[k]; ok {
		return CategoryPointer, true
	}
	return "", false
}

// RawEvent exposes the fields of a platform event. Accessors are only valid
// for the duration of the hook callback that produced the event.
type RawEvent interface {
	Kind() RawKind
	// Timestamp is in platform units.
	Timestamp() uint64
	KeyCode() int64
	// Flags is the platform modifier bitmask, decoded through a FlagTable.
	Flags() uint64
	// Character is the decoded text of a key event, or empty.
	Character() string
	Location() (x, y float64)
	ClickState() int64
	ScrollDelta() (dx, dy, dz float64)
}

// Normalizer converts raw platform events into Events.
type Normalizer struct {
	Flags FlagTable
}

// Normalize classifies and extracts a raw event. Unknown kinds report false
// and must be dropped by the caller.
func (n Normalizer) Normalize(raw RawEvent) (Event, bool) {
	if raw == nil {
		return Event{}, false
	}
	kind := raw.Kind()
	if kk, ok := rawKeyboardKinds[kind]; ok {
		ev := KeyboardEvent{
			Code:      int(raw.KeyCode()),
			Kind:      kk,
			Modifiers: n.Flags.Decode(raw.Flags()),
			Timestamp: clampTimestamp(raw.Timestamp()),
		}
		if kk != ModifiersChanged {
			ev.Character = raw.Character()
		}
		return KeyboardOf(ev), true
	}
	pk, ok := rawPointerKinds[kind]
	if !ok {
		return Event{}, false
	}
	x, y := raw.Location()
	ev := PointerEvent{
		X:          x,
		Y:          y,
		Kind:       pk,
		Button:     pk.Button(),
		ClickCount: 1,
		Timestamp:  clampTimestamp(raw.Timestamp()),
	}
	if pk.IsDown() {
		if clicks := raw.ClickState(); clicks > 1 {
			ev.ClickCount = int(clicks)
		}
	}
	if pk == ScrollWheel {
		ev.DeltaX, ev.DeltaY, ev.DeltaZ = raw.ScrollDelta()
	}
	return PointerOf(ev), true
}

// clampTimestamp keeps platform ticks inside the int64 range.
func clampTimestamp(ts uint64) int64 {
	if ts > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(ts)
}
