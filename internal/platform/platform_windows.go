//go:build windows

package platform

import (
	"golang.org/x/sys/windows"

	"github.com/frudas24/inputtap/internal/input"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
	procShowCursor          = user32.NewProc("ShowCursor")
	procGetCursor           = user32.NewProc("GetCursor")
)

// New returns the Win32 bindings. Windows has no separate grant for hooks or
// SendInput, so the prober always reports trusted.
func New() (Platform, error) {
	return Platform{
		Name:    "windows",
		Hook:    winHook{},
		Poster:  winPoster{},
		Display: winDisplay{},
		Prober:  winProber{},
		Flags:   input.IdentityFlags,
	}, nil
}

// winProber reports the implicit Windows grant.
type winProber struct{}

// Trusted always reports true.
func (winProber) Trusted() bool { return true }

// Prompt is a no-op.
func (winProber) Prompt() {}
