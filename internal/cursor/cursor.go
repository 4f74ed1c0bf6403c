// Package cursor hides and restores the global pointer cursor.
package cursor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/platform"
	"github.com/frudas24/inputtap/internal/uiloop"
)

// State is the applied cursor state. Saved is set iff Hidden is true.
type State struct {
	Hidden bool
	Saved  platform.Cursor
}

// Controller tracks the requested visibility synchronously and applies each
// transition on the UI loop in request order.
type Controller struct {
	display platform.Display
	ui      *uiloop.Dispatcher
	log     *zap.Logger

	mu   sync.Mutex
	want bool

	stateMu sync.Mutex
	state   State
}

// New returns a controller applying changes through ui.
func New(display platform.Display, ui *uiloop.Dispatcher, log *zap.Logger) *Controller {
	return &Controller{display: display, ui: ui, log: logging.OrNop(log)}
}

// Hide requests the cursor be hidden. Repeated calls are no-ops.
func (c *Controller) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.want {
		return
	}
	c.want = true
	c.post(c.applyHide)
}

// Show requests the cursor be restored. Repeated calls are no-ops.
func (c *Controller) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.want {
		return
	}
	c.want = false
	c.post(c.applyShow)
}

// Set requests hidden or shown.
func (c *Controller) Set(hidden bool) {
	if hidden {
		c.Hide()
		return
	}
	c.Show()
}

// Requested reports the most recently requested visibility.
func (c *Controller) Requested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.want
}

// State returns the state applied so far on the UI loop.
func (c *Controller) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// post hands fn to the UI loop; it waits for room rather than drop a transition.
func (c *Controller) post(fn func()) {
	if err := c.ui.Post(context.Background(), fn); err != nil {
		c.log.Warn("cursor change not applied", zap.Error(err))
	}
}

// applyHide saves the current cursor and hides it. UI loop only.
func (c *Controller) applyHide() {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.state.Hidden {
		return
	}
	saved := c.display.CurrentCursor()
	c.display.HideCursor()
	c.state = State{Hidden: true, Saved: saved}
	c.log.Debug("cursor hidden")
}

// applyShow unhides and reapplies the saved cursor. UI loop only.
func (c *Controller) applyShow() {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if !c.state.Hidden {
		return
	}
	c.display.ShowCursor()
	c.display.SetCursor(c.state.Saved)
	c.state = State{}
	c.log.Debug("cursor restored")
}
