// Package testutil provides fakes for the platform seam.
package testutil

import (
	"sync"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/platform"
)

// Ensure fakes implement the seam.
var (
	_ platform.Hook    = (*FakeHook)(nil)
	_ platform.Poster  = (*FakePoster)(nil)
	_ platform.Display = (*FakeDisplay)(nil)
	_ platform.Prober  = (*FakeProber)(nil)
)

// FakeHook records installations and lets tests fire raw events.
type FakeHook struct {
	mu       sync.Mutex
	cb       platform.Callback
	installs int
	closes   int
	// Err, when set, makes Install fail.
	Err error
}

// Install records the callback unless Err is set.
func (h *FakeHook) Install(cb platform.Callback) (platform.Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return nil, h.Err
	}
	h.installs++
	h.cb = cb
	return &fakeHandle{hook: h}, nil
}

// Fire delivers raw to the installed callback. ok is false when no hook is live.
func (h *FakeHook) Fire(raw input.RawEvent) (platform.Decision, bool) {
	h.mu.Lock()
	cb := h.cb
	h.mu.Unlock()
	if cb == nil {
		return platform.Pass, false
	}
	return cb(raw), true
}

// Live reports whether a hook is installed.
func (h *FakeHook) Live() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cb != nil
}

// Installs returns how many times Install succeeded.
func (h *FakeHook) Installs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.installs
}

// Closes returns how many handles were closed.
func (h *FakeHook) Closes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closes
}

type fakeHandle struct {
	hook *FakeHook
	once sync.Once
}

// Close detaches the callback once.
func (f *fakeHandle) Close() error {
	f.once.Do(func() {
		f.hook.mu.Lock()
		f.hook.cb = nil
		f.hook.closes++
		f.hook.mu.Unlock()
	})
	return nil
}

// FakePoster records posted requests.
type FakePoster struct {
	mu       sync.Mutex
	Pointer  []platform.PointerRequest
	Keyboard []platform.KeyboardRequest
	Err      error
}

// PostPointer records req.
func (p *FakePoster) PostPointer(req platform.PointerRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Pointer = append(p.Pointer, req)
	return nil
}

// PostKeyboard records req.
func (p *FakePoster) PostKeyboard(req platform.KeyboardRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Keyboard = append(p.Keyboard, req)
	return nil
}

// Pointers returns a copy of the posted pointer requests.
func (p *FakePoster) Pointers() []platform.PointerRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]platform.PointerRequest(nil), p.Pointer...)
}

// Keys returns a copy of the posted keyboard requests.
func (p *FakePoster) Keys() []platform.KeyboardRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]platform.KeyboardRequest(nil), p.Keyboard...)
}

// FakeDisplay models a cursor with a hide counter.
type FakeDisplay struct {
	mu      sync.Mutex
	current platform.Cursor
	hides   int
	shows   int
	applied []platform.Cursor
	calls   []string
}

// NewFakeDisplay returns a display whose active cursor is c.
func NewFakeDisplay(c platform.Cursor) *FakeDisplay {
	return &FakeDisplay{current: c}
}

// CurrentCursor returns the active cursor.
func (d *FakeDisplay) CurrentCursor() platform.Cursor {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "current")
	return d.current
}

// HideCursor counts a hide.
func (d *FakeDisplay) HideCursor() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hides++
	d.calls = append(d.calls, "hide")
}

// ShowCursor counts a show.
func (d *FakeDisplay) ShowCursor() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shows++
	d.calls = append(d.calls, "show")
}

// SetCursor records c and makes it active.
func (d *FakeDisplay) SetCursor(c platform.Cursor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = c
	d.applied = append(d.applied, c)
	d.calls = append(d.calls, "set")
}

// SwapCursor changes the active cursor as another app would.
func (d *FakeDisplay) SwapCursor(c platform.Cursor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = c
}

// Hidden reports whether hides outnumber shows.
func (d *FakeDisplay) Hidden() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hides > d.shows
}

// Hides returns the number of HideCursor calls.
func (d *FakeDisplay) Hides() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hides
}

// Applied returns the cursors passed to SetCursor.
func (d *FakeDisplay) Applied() []platform.Cursor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]platform.Cursor(nil), d.applied...)
}

// Calls returns the call log.
func (d *FakeDisplay) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// FakeProber reports a configurable grant.
type FakeProber struct {
	mu      sync.Mutex
	granted bool
	prompts int
}

// NewFakeProber returns a prober with the given grant.
func NewFakeProber(granted bool) *FakeProber {
	return &FakeProber{granted: granted}
}

// Trusted reports the grant.
func (p *FakeProber) Trusted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}

// Prompt counts prompts.
func (p *FakeProber) Prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts++
}

// Grant changes the grant as the user would in system settings.
func (p *FakeProber) Grant(granted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.granted = granted
}

// Prompts returns the number of prompts.
func (p *FakeProber) Prompts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prompts
}

// Platform bundles fresh fakes with identity flag decoding.
func Platform(granted bool) (platform.Platform, *FakeHook, *FakePoster, *FakeDisplay, *FakeProber) {
	hook := &FakeHook{}
	poster := &FakePoster{}
	display := NewFakeDisplay(1)
	prober := NewFakeProber(granted)
	return platform.Platform{
		Name:    "fake",
		Hook:    hook,
		Poster:  poster,
		Display: display,
		Prober:  prober,
		Flags:   input.IdentityFlags,
	}, hook, poster, display, prober
}
