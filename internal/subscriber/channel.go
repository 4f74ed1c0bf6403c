// Package subscriber delivers normalized events to the single active
// listener on the UI loop.
package subscriber

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/uiloop"
)

// Sink receives events in hook order. Both methods run on the UI loop; Close
// runs after the last Deliver once the sink is detached or superseded.
type Sink interface {
	Deliver(ev input.Event)
	Close()
}

// Tap is the hook lifecycle driven by attach and detach.
type Tap interface {
	Start(onEvent func(input.Event)) error
	Stop() error
}

// Cursor is restored on detach and re-hidden on attach when pointer input is
// still blocked.
type Cursor interface {
	Set(hidden bool)
}

// PointerBlocked reports whether pointer input is currently blocked.
type PointerBlocked func() bool

type binding struct {
	sink Sink
	gen  uint64
}

// Channel holds at most one sink; attaching replaces the previous one.
type Channel struct {
	tap     Tap
	ui      *uiloop.Dispatcher
	cursor  Cursor
	pointer PointerBlocked
	log     *zap.Logger

	mu      sync.Mutex
	gen     uint64
	current atomic.Pointer[binding]
}

// New returns a detached channel.
func New(tap Tap, ui *uiloop.Dispatcher, cursor Cursor, pointer PointerBlocked, log *zap.Logger) *Channel {
	if pointer == nil {
		pointer = func() bool { return false }
	}
	return &Channel{tap: tap, ui: ui, cursor: cursor, pointer: pointer, log: logging.OrNop(log)}
}

// Attach makes sink the only listener and starts the tap. A previous sink is
// closed after any events already queued for it. When the tap cannot start
// the channel is left detached with the cursor shown; sink stays owned by
// the caller and is not closed.
func (c *Channel) Attach(sink Sink) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	b := &binding{sink: sink, gen: c.gen}
	prev := c.current.Swap(b)
	if prev != nil {
		c.closeLater(prev.sink)
		c.log.Info("subscriber superseded", zap.Uint64("generation", c.gen))
	}
	if c.cursor != nil && c.pointer() {
		c.cursor.Set(true)
	}
	if err := c.tap.Start(c.Forward); err != nil {
		c.current.CompareAndSwap(b, nil)
		if c.cursor != nil {
			c.cursor.Set(false)
		}
		c.log.Warn("subscriber attach rolled back", zap.Uint64("generation", b.gen), zap.Error(err))
		return err
	}
	return nil
}

// Detach clears the sink, stops the tap and restores the cursor.
func (c *Channel) Detach() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detachLocked()
}

// DetachSink detaches only if sink is still the active listener.
func (c *Channel) DetachSink(sink Sink) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur := c.current.Load(); cur == nil || cur.sink != sink {
		return nil
	}
	return c.detachLocked()
}

// detachLocked does the work of Detach; c.mu must be held.
func (c *Channel) detachLocked() error {
	prev := c.current.Swap(nil)
	err := c.tap.Stop()
	if c.cursor != nil {
		c.cursor.Set(false)
	}
	if prev != nil {
		c.closeLater(prev.sink)
		c.log.Info("subscriber detached", zap.Uint64("generation", prev.gen))
	}
	return err
}

// Forward queues ev for the sink active now. It never blocks; when the UI
// loop is saturated the event is dropped and counted there.
func (c *Channel) Forward(ev input.Event) {
	b := c.current.Load()
	if b == nil {
		return
	}
	c.ui.TryPost(func() {
		if cur := c.current.Load(); cur == nil || cur.gen != b.gen {
			return
		}
		b.sink.Deliver(ev)
	})
}

// Attached reports whether a sink is active.
func (c *Channel) Attached() bool {
	return c.current.Load() != nil
}

// closeLater closes sink on the UI loop behind its queued events.
func (c *Channel) closeLater(sink Sink) {
	if err := c.ui.Post(context.Background(), sink.Close); err != nil {
		sink.Close()
	}
}
