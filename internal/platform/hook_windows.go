//go:build windows

package platform

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/frudas24/inputtap/internal/input"
)

const (
	whKeyboardLL  = 13
	whMouseLL     = 14
	hcAction      = 0
	wmMouseHWheel = 0x020E
)

// kbdLLHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdLLHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// msLLHookStruct mirrors MSLLHOOKSTRUCT.
type msLLHookStruct struct {
	Pt          win.POINT
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// activeTap is the hook the package-level procs dispatch to. Low-level hook
// procs receive no user data, so only one tap may exist.
var activeTap atomic.Pointer[winTap]

var (
	keyboardHookCallback = windows.NewCallback(keyboardHookProc)
	mouseHookCallback    = windows.NewCallback(mouseHookProc)
)

// winHook installs WH_KEYBOARD_LL and WH_MOUSE_LL on a message-loop thread.
type winHook struct{}

// winTap is one pair of low-level hooks and the thread pumping them.
type winTap struct {
	cb       Callback
	threadID uint32
	done     chan struct{}
	once     sync.Once
}

// Install starts the hook thread and waits for both hooks to be set.
func (winHook) Install(cb Callback) (Handle, error) {
	t := &winTap{cb: cb, done: make(chan struct{})}
	if !activeTap.CompareAndSwap(nil, t) {
		return nil, fmt.Errorf("%w: a hook is already installed", ErrHookRefused)
	}
	ready := make(chan error, 1)
	go t.run(ready)
	if err := <-ready; err != nil {
		<-t.done
		activeTap.CompareAndSwap(t, nil)
		return nil, err
	}
	return t, nil
}

// run owns both hooks; they are serviced by this thread's message loop.
func (t *winTap) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	t.threadID = win.GetCurrentThreadId()
	module := uintptr(win.GetModuleHandle(nil))
	kb, _, err := procSetWindowsHookExW.Call(whKeyboardLL, keyboardHookCallback, module, 0)
	if kb == 0 {
		ready <- fmt.Errorf("%w: keyboard: %v", ErrHookRefused, err)
		return
	}
	ms, _, err := procSetWindowsHookExW.Call(whMouseLL, mouseHookCallback, module, 0)
	if ms == 0 {
		procUnhookWindowsHookEx.Call(kb)
		ready <- fmt.Errorf("%w: mouse: %v", ErrHookRefused, err)
		return
	}
	ready <- nil

	var msg win.MSG
	for win.GetMessage(&msg, 0, 0, 0) > 0 {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
	procUnhookWindowsHookEx.Call(ms)
	procUnhookWindowsHookEx.Call(kb)
}

// Close posts WM_QUIT to the hook thread and waits for it to unhook.
func (t *winTap) Close() error {
	var err error
	t.once.Do(func() {
		r, _, callErr := procPostThreadMessageW.Call(uintptr(t.threadID), win.WM_QUIT, 0, 0)
		if r == 0 {
			err = fmt.Errorf("post WM_QUIT: %v", callErr)
			return
		}
		<-t.done
		activeTap.CompareAndSwap(t, nil)
	})
	return err
}

// callNext forwards to the next hook in the chain.
func callNext(code, wParam, lParam uintptr) uintptr {
	r, _, _ := procCallNextHookEx.Call(0, code, wParam, lParam)
	return r
}

// keyboardHookProc is the WH_KEYBOARD_LL procedure.
func keyboardHookProc(code, wParam, lParam uintptr) uintptr {
	if int32(code) == hcAction {
		if t := activeTap.Load(); t != nil {
			info := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
			ev := winKeyEvent{
				kind: winKeyKind(wParam, info.VkCode),
				vk:   info.VkCode,
				time: info.Time,
				mods: asyncModifiers(),
			}
			if t.cb(ev) == Swallow {
				return 1
			}
		}
	}
	return callNext(code, wParam, lParam)
}

// mouseHookProc is the WH_MOUSE_LL procedure.
func mouseHookProc(code, wParam, lParam uintptr) uintptr {
	if int32(code) == hcAction {
		if t := activeTap.Load(); t != nil {
			info := (*msLLHookStruct)(unsafe.Pointer(lParam))
			ev := winMouseEvent{
				x:    float64(info.Pt.X),
				y:    float64(info.Pt.Y),
				time: info.Time,
			}
			ev.kind, ev.clicks = winMouseKind(uint32(wParam))
			wheel := float64(int16(info.MouseData >> 16))
			switch uint32(wParam) {
			case win.WM_MOUSEWHEEL:
				ev.dy = wheel
			case wmMouseHWheel:
				ev.dx = wheel
			}
			if t.cb(ev) == Swallow {
				return 1
			}
		}
	}
	return callNext(code, wParam, lParam)
}

// isModifierKey reports whether vk is a modifier or lock key.
func isModifierKey(vk uint32) bool {
	switch vk {
	case win.VK_SHIFT, win.VK_CONTROL, win.VK_MENU, win.VK_LWIN, win.VK_RWIN, win.VK_CAPITAL,
		win.VK_LSHIFT, win.VK_RSHIFT, win.VK_LCONTROL, win.VK_RCONTROL, win.VK_LMENU, win.VK_RMENU:
		return true
	default:
		return false
	}
}

// winKeyKind classifies a keyboard hook message.
func winKeyKind(msg uintptr, vk uint32) input.RawKind {
	switch uint32(msg) {
	case win.WM_KEYDOWN, win.WM_SYSKEYDOWN:
		if isModifierKey(vk) {
			return input.RawFlagsChanged
		}
		return input.RawKeyDown
	case win.WM_KEYUP, win.WM_SYSKEYUP:
		if isModifierKey(vk) {
			return input.RawFlagsChanged
		}
		return input.RawKeyUp
	default:
		return input.RawUnknown
	}
}

// winMouseKind classifies a mouse hook message and its click count.
func winMouseKind(msg uint32) (input.RawKind, int64) {
	switch msg {
	case win.WM_LBUTTONDOWN:
		return input.RawLeftMouseDown, 1
	case win.WM_LBUTTONDBLCLK:
		return input.RawLeftMouseDown, 2
	case win.WM_LBUTTONUP:
		return input.RawLeftMouseUp, 1
	case win.WM_RBUTTONDOWN:
		return input.RawRightMouseDown, 1
	case win.WM_RBUTTONDBLCLK:
		return input.RawRightMouseDown, 2
	case win.WM_RBUTTONUP:
		return input.RawRightMouseUp, 1
	case win.WM_MBUTTONDOWN:
		return input.RawOtherMouseDown, 1
	case win.WM_MBUTTONDBLCLK:
		return input.RawOtherMouseDown, 2
	case win.WM_MBUTTONUP:
		return input.RawOtherMouseUp, 1
	case win.WM_MOUSEMOVE:
		switch {
		case keyHeld(win.VK_LBUTTON):
			return input.RawLeftMouseDragged, 1
		case keyHeld(win.VK_RBUTTON):
			return input.RawRightMouseDragged, 1
		case keyHeld(win.VK_MBUTTON):
			return input.RawOtherMouseDragged, 1
		}
		return input.RawMouseMoved, 1
	case win.WM_MOUSEWHEEL, wmMouseHWheel:
		return input.RawScrollWheel, 1
	default:
		return input.RawUnknown, 0
	}
}

// keyHeld reports whether vk is physically down right now.
func keyHeld(vk int) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(r)&0x8000 != 0
}

// asyncModifiers samples the modifier state in IdentityFlags layout.
func asyncModifiers() uint64 {
	var m input.Modifiers
	if keyHeld(win.VK_SHIFT) {
		m |= input.ModShift
	}
	if keyHeld(win.VK_CONTROL) {
		m |= input.ModControl
	}
	if keyHeld(win.VK_MENU) {
		m |= input.ModOption
	}
	if keyHeld(win.VK_LWIN) || keyHeld(win.VK_RWIN) {
		m |= input.ModCommand
	}
	if win.GetKeyState(win.VK_CAPITAL)&1 != 0 {
		m |= input.ModCapsLock
	}
	if keyHeld(win.VK_HELP) {
		m |= input.ModHelp
	}
	return uint64(m)
}

// winKeyEvent is a decoded KBDLLHOOKSTRUCT.
type winKeyEvent struct {
	kind input.RawKind
	vk   uint32
	time uint32
	mods uint64
}

// Kind returns the raw event kind.
func (e winKeyEvent) Kind() input.RawKind {
	return e.kind
}

// Timestamp returns the hook time in milliseconds.
func (e winKeyEvent) Timestamp() uint64 {
	return uint64(e.time)
}

// KeyCode returns the virtual key code.
func (e winKeyEvent) KeyCode() int64 {
	return int64(e.vk)
}

// Flags returns the modifier mask.
func (e winKeyEvent) Flags() uint64 {
	return e.mods
}

// Character is always empty; low-level hooks carry no text.
func (e winKeyEvent) Character() string {
	return ""
}

// Location is zero for key events.
func (e winKeyEvent) Location() (float64, float64) {
	return 0, 0
}

// ClickState is zero for key events.
func (e winKeyEvent) ClickState() int64 {
	return 0
}

// ScrollDelta is zero for key events.
func (e winKeyEvent) ScrollDelta() (float64, float64, float64) {
	return 0, 0, 0
}

// winMouseEvent is a decoded MSLLHOOKSTRUCT.
type winMouseEvent struct {
	kind   input.RawKind
	x, y   float64
	time   uint32
	clicks int64
	dx, dy float64
}

// Kind returns the raw event kind.
func (e winMouseEvent) Kind() input.RawKind {
	return e.kind
}

// Timestamp returns the hook time in milliseconds.
func (e winMouseEvent) Timestamp() uint64 {
	return uint64(e.time)
}

// KeyCode is zero for pointer events.
func (e winMouseEvent) KeyCode() int64 {
	return 0
}

// Flags is zero; modifiers are not sampled for pointer events.
func (e winMouseEvent) Flags() uint64 {
	return 0
}

// Character is always empty for pointer events.
func (e winMouseEvent) Character() string {
	return ""
}

// Location returns the screen position.
func (e winMouseEvent) Location() (float64, float64) {
	return e.x, e.y
}

// ClickState returns the click count.
func (e winMouseEvent) ClickState() int64 {
	return e.clicks
}

// ScrollDelta returns the wheel deltas.
func (e winMouseEvent) ScrollDelta() (float64, float64, float64) {
	return e.dx, e.dy, 0
}
