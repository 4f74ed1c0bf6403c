//go:build windows

package platform

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/lxn/win"

	"github.com/frudas24/inputtap/internal/input"
)

// winPoster injects input with SendInput.
type winPoster struct{}

// winButtonFlags maps pointer kinds to MOUSEEVENTF button bits.
var winButtonFlags = map[input.PointerKind]uint32{
	input.LeftMouseDown:     win.MOUSEEVENTF_LEFTDOWN,
	input.LeftMouseUp:       win.MOUSEEVENTF_LEFTUP,
	input.RightMouseDown:    win.MOUSEEVENTF_RIGHTDOWN,
	input.RightMouseUp:      win.MOUSEEVENTF_RIGHTUP,
	input.OtherMouseDown:    win.MOUSEEVENTF_MIDDLEDOWN,
	input.OtherMouseUp:      win.MOUSEEVENTF_MIDDLEUP,
	input.MouseMoved:        0,
	input.LeftMouseDragged:  0,
	input.RightMouseDragged: 0,
	input.OtherMouseDragged: 0,
}

// PostPointer moves to the absolute position and applies the button action.
// Scroll events post vertical and horizontal wheel input separately.
func (winPoster) PostPointer(req PointerRequest) error {
	if req.Kind == input.ScrollWheel {
		if req.DeltaY != 0 {
			if err := sendMouseInput(win.MOUSEEVENTF_WHEEL, 0, 0, uint32(int32(clampDelta(req.DeltaY)))); err != nil {
				return err
			}
		}
		if req.DeltaX != 0 {
			return sendMouseInput(win.MOUSEEVENTF_HWHEEL, 0, 0, uint32(int32(clampDelta(req.DeltaX))))
		}
		return nil
	}
	button, ok := winButtonFlags[req.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", input.ErrInvalidEventKind, req.Kind)
	}
	dx, dy := mapAbsolute(req.X, req.Y)
	flags := uint32(win.MOUSEEVENTF_MOVE|win.MOUSEEVENTF_ABSOLUTE|win.MOUSEEVENTF_VIRTUALDESK) | button
	clicks := 1
	if req.Kind.IsDown() && req.ClickCount > 1 {
		clicks = req.ClickCount
	}
	for i := 0; i < clicks; i++ {
		if i > 0 {
			if err := sendMouseInput(winButtonFlags[releaseOf(req.Kind)], dx, dy, 0); err != nil {
				return err
			}
		}
		if err := sendMouseInput(flags, dx, dy, 0); err != nil {
			return err
		}
	}
	return nil
}

// releaseOf returns the up kind paired with a down kind.
func releaseOf(k input.PointerKind) input.PointerKind {
	switch k {
	case input.RightMouseDown:
		return input.RightMouseUp
	case input.OtherMouseDown:
		return input.OtherMouseUp
	default:
		return input.LeftMouseUp
	}
}

// winModifierKeys lists the virtual keys pressed for each modifier.
var winModifierKeys = []struct {
	mod input.Modifiers
	vk  uint16
}{
	{input.ModShift, win.VK_SHIFT},
	{input.ModControl, win.VK_CONTROL},
	{input.ModOption, win.VK_MENU},
	{input.ModCommand, win.VK_LWIN},
}

// PostKeyboard presses the requested modifiers, sends the key, then releases
// the modifiers in reverse order.
func (winPoster) PostKeyboard(req KeyboardRequest) error {
	var pressed []uint16
	release := func() {
		for i := len(pressed) - 1; i >= 0; i-- {
			_ = sendKeyboardInput(win.KEYBDINPUT{WVk: pressed[i], DwFlags: win.KEYEVENTF_KEYUP})
		}
	}
	for _, entry := range winModifierKeys {
		if !req.Modifiers.Has(entry.mod) {
			continue
		}
		if err := sendKeyboardInput(win.KEYBDINPUT{WVk: entry.vk}); err != nil {
			release()
			return err
		}
		pressed = append(pressed, entry.vk)
	}
	key := win.KEYBDINPUT{WVk: uint16(req.Code)}
	if req.Kind == input.KeyUp {
		key.DwFlags = win.KEYEVENTF_KEYUP
	}
	err := sendKeyboardInput(key)
	release()
	return err
}

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32, data uint32) error {
	in := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&in), int32(unsafe.Sizeof(in))) != 1 {
		return fmt.Errorf("SendInput mouse failed: %d", win.GetLastError())
	}
	return nil
}

// sendKeyboardInput dispatches a single keyboard input event.
func sendKeyboardInput(key win.KEYBDINPUT) error {
	in := win.KEYBD_INPUT{
		Type: win.INPUT_KEYBOARD,
		Ki:   key,
	}
	if win.SendInput(1, unsafe.Pointer(&in), int32(unsafe.Sizeof(in))) != 1 {
		return fmt.Errorf("SendInput keyboard failed: %d", win.GetLastError())
	}
	return nil
}

// mapAbsolute converts virtual-desktop coordinates to the 0..65535 range.
func mapAbsolute(x, y float64) (int32, int32) {
	vx := float64(win.GetSystemMetrics(win.SM_XVIRTUALSCREEN))
	vy := float64(win.GetSystemMetrics(win.SM_YVIRTUALSCREEN))
	vw := float64(win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN))
	vh := float64(win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN))
	if vw <= 1 {
		vw = 2
	}
	if vh <= 1 {
		vh = 2
	}
	dx := (x - vx) * 65535 / (vw - 1)
	dy := (y - vy) * 65535 / (vh - 1)
	return int32(math.Round(dx)), int32(math.Round(dy))
}

// clampDelta keeps a wheel delta inside the int32 range.
func clampDelta(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return math.Round(v)
	}
}
