package testutil

import "github.com/frudas24/inputtap/internal/input"

// Raw is a scripted raw event.
type Raw struct {
	Type       input.RawKind
	Time       uint64
	Code       int64
	Mask       uint64
	Text       string
	X, Y       float64
	Clicks     int64
	DX, DY, DZ float64
}

// Kind returns the raw event kind.
func (r Raw) Kind() input.RawKind {
	return r.Type
}

// Timestamp returns the event time.
func (r Raw) Timestamp() uint64 {
	return r.Time
}

// KeyCode returns the virtual key code.
func (r Raw) KeyCode() int64 {
	return r.Code
}

// Flags returns the modifier mask.
func (r Raw) Flags() uint64 {
	return r.Mask
}

// Character returns the typed text.
func (r Raw) Character() string {
	return r.Text
}

// Location returns the screen position.
func (r Raw) Location() (float64, float64) {
	return r.X, r.Y
}

// ClickState returns the click count.
func (r Raw) ClickState() int64 {
	return r.Clicks
}

// ScrollDelta returns the wheel deltas.
func (r Raw) ScrollDelta() (float64, float64, float64) {
	return r.DX, r.DY, r.DZ
}

// KeyDown returns a raw key press.
func KeyDown(code int64) Raw {
	return Raw{Type: input.RawKeyDown, Code: code}
}

// MouseMove returns a raw pointer motion.
func MouseMove(x, y float64) Raw {
	return Raw{Type: input.RawMouseMoved, X: x, Y: y}
}
