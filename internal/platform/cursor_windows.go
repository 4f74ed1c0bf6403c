//go:build windows

package platform

import "github.com/lxn/win"

// winDisplay drives the Win32 cursor display counter.
type winDisplay struct{}

// CurrentCursor returns the active HCURSOR.
func (winDisplay) CurrentCursor() Cursor {
	r, _, _ := procGetCursor.Call()
	return Cursor(r)
}

// HideCursor decrements the display counter.
func (winDisplay) HideCursor() {
	procShowCursor.Call(0)
}

// ShowCursor increments the display counter.
func (winDisplay) ShowCursor() {
	procShowCursor.Call(1)
}

// SetCursor reapplies a saved HCURSOR.
func (winDisplay) SetCursor(c Cursor) {
	if c == 0 {
		return
	}
	win.SetCursor(win.HCURSOR(c))
}
