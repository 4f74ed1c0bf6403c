// Package engine owns every input component for one process and exposes the
// command operations and the event stream attach point.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/cursor"
	"github.com/frudas24/inputtap/internal/inject"
	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/permission"
	"github.com/frudas24/inputtap/internal/platform"
	"github.com/frudas24/inputtap/internal/policy"
	"github.com/frudas24/inputtap/internal/subscriber"
	"github.com/frudas24/inputtap/internal/tap"
	"github.com/frudas24/inputtap/internal/uiloop"
)

// ErrClosed is returned by operations after Close.
var ErrClosed = errors.New("engine closed")

// Options configure an Engine.
type Options struct {
	Platform  platform.Platform
	QueueSize int
	Override  permission.Override
	Logger    *zap.Logger
}

// Engine is the explicit owner of the block set, cursor state and tap.
type Engine struct {
	platform string
	ui       *uiloop.Dispatcher
	cursor   *cursor.Controller
	policy   *policy.Policy
	gate     *permission.Gate
	tap      *tap.Manager
	channel  *subscriber.Channel
	injector *inject.Injector
	log      *zap.Logger

	// lifeMu orders Subscribe against Close.
	lifeMu    sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// New wires the components. The caller must run Run on its UI thread.
func New(opts Options) (*Engine, error) {
	if err := opts.Platform.Validate(); err != nil {
		return nil, err
	}
	log := logging.OrNop(opts.Logger)
	e := &Engine{platform: opts.Platform.Name, log: log, closed: make(chan struct{})}
	e.ui = uiloop.New(opts.QueueSize, log.Named("uiloop"))
	e.cursor = cursor.New(opts.Platform.Display, e.ui, log.Named("cursor"))
	e.policy = policy.New(e.cursor, log.Named("policy"))
	e.gate = permission.NewGate(opts.Platform.Prober, opts.Override, log.Named("permission"))
	e.tap = tap.New(opts.Platform.Hook, e.gate, e.policy, opts.Platform.Flags, log.Named("tap"))
	e.channel = subscriber.New(e.tap, e.ui, e.cursor, func() bool {
		return e.policy.IsBlocking(input.CategoryPointer)
	}, log.Named("subscriber"))
	e.injector = inject.New(opts.Platform.Poster, log.Named("inject"))
	return e, nil
}

// Run services the UI loop until Close; call it on the UI-affinity thread.
func (e *Engine) Run() {
	e.ui.Run()
}

// UI exposes the UI loop for hosts that post their own work.
func (e *Engine) UI() *uiloop.Dispatcher {
	return e.ui
}

// RequestPermission returns whether the grant was already held, prompting once if not.
func (e *Engine) RequestPermission() bool {
	return e.gate.RequestCapability()
}

// IsPermissionGranted reports the grant. One grant covers every category,
// so the category list does not change the answer.
func (e *Engine) IsPermissionGranted(types []string) bool {
	_ = types
	return e.gate.HasCapability()
}

// InjectMouseInput posts one synthetic pointer event.
func (e *Engine) InjectMouseInput(args inject.PointerArgs) error {
	if e.isClosed() {
		return ErrClosed
	}
	return e.injector.InjectPointer(args)
}

// InjectKeyboardInput posts one synthetic keyboard event.
func (e *Engine) InjectKeyboardInput(args inject.KeyboardArgs) error {
	if e.isClosed() {
		return ErrClosed
	}
	return e.injector.InjectKeyboard(args)
}

// SetInputBlocked updates the block set; a nil list means every category and
// an empty one changes nothing.
func (e *Engine) SetInputBlocked(blocked bool, types []string) (bool, error) {
	if e.isClosed() {
		return false, ErrClosed
	}
	if err := e.policy.SetBlocked(types, blocked); err != nil {
		return false, err
	}
	return true, nil
}

// GetBlockedInputs lists blocked category names in reporting order.
func (e *Engine) GetBlockedInputs() []string {
	return e.policy.Blocked().Names()
}

// Subscribe attaches sink as the only listener and starts the tap.
// A missing grant leaves the tap stopped without error.
func (e *Engine) Subscribe(sink subscriber.Sink) error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.isClosed() {
		return ErrClosed
	}
	return e.channel.Attach(sink)
}

// Unsubscribe detaches the listener, stops the tap and restores the cursor.
func (e *Engine) Unsubscribe() error {
	return e.channel.Detach()
}

// UnsubscribeSink detaches sink only if it is still the active listener.
func (e *Engine) UnsubscribeSink(sink subscriber.Sink) error {
	return e.channel.DetachSink(sink)
}

// State is a point-in-time snapshot for status reporting.
type State struct {
	Platform   string    `json:"platform"`
	Permission bool      `json:"permission"`
	Blocked    []string  `json:"blocked"`
	Tap        string    `json:"tap"`
	Subscribed bool      `json:"subscribed"`
	Hidden     bool      `json:"cursorHidden"`
	Dropped    uint64    `json:"dropped"`
	Pending    int       `json:"pending"`
	Stats      tap.Stats `json:"stats"`
}

// State returns a snapshot of every component.
func (e *Engine) State() State {
	return State{
		Platform:   e.platform,
		Permission: e.gate.HasCapability(),
		Blocked:    e.GetBlockedInputs(),
		Tap:        e.tap.State().String(),
		Subscribed: e.channel.Attached(),
		Hidden:     e.cursor.State().Hidden,
		Dropped:    e.ui.Dropped(),
		Pending:    e.ui.Pending(),
		Stats:      e.tap.Stats(),
	}
}

// Close detaches the listener, stops the tap, restores the cursor, waits for
// queued UI work and stops the UI loop. It is safe to call more than once.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	e.closeOnce.Do(func() {
		e.lifeMu.Lock()
		close(e.closed)
		if detachErr := e.channel.Detach(); detachErr != nil {
			err = fmt.Errorf("detach: %w", detachErr)
		}
		e.lifeMu.Unlock()
		e.cursor.Show()
		if syncErr := e.ui.Sync(ctx); syncErr != nil && err == nil {
			err = fmt.Errorf("flush ui loop: %w", syncErr)
		}
		e.ui.Stop()
		e.log.Info("engine closed", zap.Uint64("dropped", e.ui.Dropped()))
	})
	return err
}

// isClosed reports whether Close has begun.
func (e *Engine) isClosed() bool {
	select {
	case <-e.closed:
		return true
	default:
		return false
	}
}
