// Package input defines the normalized input event model and its vocabulary.
package input

import (
	"encoding/json"
	"errors"
)

// KeyboardEvent is the keyboard variant of a normalized event.
type KeyboardEvent struct {
	Code      int
	Kind      KeyboardKind
	Modifiers Modifiers
	Timestamp int64
	// Character is the decoded text; empty means absent.
	Character string
}

// PointerEvent is the pointer variant of a normalized event.
type PointerEvent struct {
	X          float64
	Y          float64
	Kind       PointerKind
	Button     Button
	ClickCount int
	DeltaX     float64
	DeltaY     float64
	DeltaZ     float64
	Timestamp  int64
}

// Event is a tagged union; exactly one variant is set.
type Event struct {
	Keyboard *KeyboardEvent
	Pointer  *PointerEvent
}

// KeyboardOf wraps a keyboard variant.
func KeyboardOf(k KeyboardEvent) Event {
	return Event{Keyboard: &k}
}

// PointerOf wraps a pointer variant.
func PointerOf(p PointerEvent) Event {
	return Event{Pointer: &p}
}

// Category derives the category from the populated variant.
func (e Event) Category() Category {
	if e.Keyboard != nil {
		return CategoryKeyboard
	}
	return CategoryPointer
}

// Valid reports whether exactly one variant is populated.
func (e Event) Valid() bool {
	return (e.Keyboard == nil) != (e.Pointer == nil)
}

type keyboardRecord struct {
	Kind      Category     `json:"kind"`
	Code      int          `json:"code"`
	Type      KeyboardKind `json:"type"`
	Modifiers []string     `json:"modifiers"`
	Character *string      `json:"character"`
	Timestamp int64        `json:"timestamp"`
}

type pointerRecord struct {
	Kind       Category    `json:"kind"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Type       PointerKind `json:"type"`
	Button     Button      `json:"button"`
	ClickCount int         `json:"clickCount"`
	DeltaX     float64     `json:"deltaX"`
	DeltaY     float64     `json:"deltaY"`
	DeltaZ     float64     `json:"deltaZ"`
	Timestamp  int64       `json:"timestamp"`
}

// MarshalJSON encodes the flat stream record with a category discriminator.
func (e Event) MarshalJSON() ([]byte, error) {
	switch {
	case !e.Valid():
		return nil, errors.New("event must carry exactly one variant")
	case e.Keyboard != nil:
		k := e.Keyboard
		rec := keyboardRecord{
			Kind:      CategoryKeyboard,
			Code:      k.Code,
			Type:      k.Kind,
			Modifiers: k.Modifiers.Names(),
			Timestamp: k.Timestamp,
		}
		if k.Character != "" {
			ch := k.Character
			rec.Character = &ch
		}
		return json.Marshal(rec)
	default:
		p := e.Pointer
		return json.Marshal(pointerRecord{
			Kind:       CategoryPointer,
			X:          p.X,
			Y:          p.Y,
			Type:       p.Kind,
			Button:     p.Button,
			ClickCount: p.ClickCount,
			DeltaX:     p.DeltaX,
			DeltaY:     p.DeltaY,
			DeltaZ:     p.DeltaZ,
			Timestamp:  p.Timestamp,
		})
	}
}
