// Package platform is the seam between the input engine and the operating
// system: hook installation, event posting, cursor control and the
// accessibility grant.
package platform

import (
	"errors"

	"github.com/frudas24/inputtap/internal/input"
)

// ErrUnsupported indicates the current OS has no input binding.
var ErrUnsupported = errors.New("input hooks are not supported on this platform")

// ErrHookRefused indicates the OS declined to install the hook.
var ErrHookRefused = errors.New("platform refused the input hook")

// Decision tells the OS whether an intercepted event continues to propagate.
type Decision int

const (
	// Pass lets the event reach the rest of the system.
	Pass Decision = iota
	// Swallow stops the event at the hook.
	Swallow
)

// Callback runs synchronously on the hook thread for every intercepted event.
// It must not block.
type Callback func(raw input.RawEvent) Decision

// Hook installs a process-wide hook covering every keyboard and pointer kind.
type Hook interface {
	// Install returns once the hook is live or has failed.
	Install(cb Callback) (Handle, error)
}

// Handle is an installed hook together with its run-loop registration.
type Handle interface {
	// Close disables and removes the hook; no callback runs after it returns.
	Close() error
}

// PointerRequest is a validated pointer event ready to post.
type PointerRequest struct {
	X          float64
	Y          float64
	Kind       input.PointerKind
	Button     input.Button
	ClickCount int
	DeltaX     float64
	DeltaY     float64
}

// KeyboardRequest is a validated keyboard event ready to post.
type KeyboardRequest struct {
	Code      int
	Kind      input.KeyboardKind
	Modifiers input.Modifiers
}

// Poster submits synthetic events into the OS input pipeline.
type Poster interface {
	PostPointer(req PointerRequest) error
	PostKeyboard(req KeyboardRequest) error
}

// Cursor is an opaque platform cursor identity. Zero means none.
type Cursor uintptr

// Display controls the global pointer cursor. Every method must run on the
// UI-affinity thread.
type Display interface {
	CurrentCursor() Cursor
	HideCursor()
	ShowCursor()
	SetCursor(c Cursor)
}

// Prober reports and requests the accessibility grant.
type Prober interface {
	Trusted() bool
	// Prompt starts the OS flow asking the user for the grant. It does not wait.
	Prompt()
}

// Platform bundles the bindings for one OS.
type Platform struct {
	Name    string
	Hook    Hook
	Poster  Poster
	Display Display
	Prober  Prober
	// Flags decodes the raw modifier mask reported by Hook events.
	Flags input.FlagTable
}

// Validate reports whether every binding is present.
func (p Platform) Validate() error {
	if p.Hook == nil || p.Poster == nil || p.Display == nil || p.Prober == nil {
		return errors.New("platform binding is incomplete")
	}
	return nil
}
