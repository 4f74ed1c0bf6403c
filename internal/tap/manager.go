// Package tap owns the lifecycle of the global input hook and the decision
// made for every event it intercepts.
package tap

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/platform"
)

// ErrInstallFailed reports that the platform refused the hook.
var ErrInstallFailed = errors.New("input hook installation failed")

// State is the lifecycle of the hook.
type State int32

const (
	// Stopped means no hook is installed.
	Stopped State = iota
	// Starting means installation is in progress.
	Starting
	// Running means the hook is live.
	Running
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	default:
		return "stopped"
	}
}

// Capability reports whether the process may install a hook.
type Capability interface {
	HasCapability() bool
}

// Blocker decides suppression per category. It is called on the hook thread.
type Blocker interface {
	IsBlocking(c input.Category) bool
}

// Stats are counters kept by the hook callback.
type Stats struct {
	Observed  uint64 `json:"observed"`
	Swallowed uint64 `json:"swallowed"`
	Unknown   uint64 `json:"unknown"`
	Panics    uint64 `json:"panics"`
}

// Manager installs at most one hook at a time.
type Manager struct {
	hook   platform.Hook
	gate   Capability
	policy Blocker
	norm   input.Normalizer
	log    *zap.Logger

	mu     sync.Mutex
	state  atomic.Int32
	handle platform.Handle

	observed  atomic.Uint64
	swallowed atomic.Uint64
	unknown   atomic.Uint64
	panics    atomic.Uint64
}

// New returns a stopped manager.
func New(hook platform.Hook, gate Capability, policy Blocker, flags input.FlagTable, log *zap.Logger) *Manager {
	return &Manager{
		hook:   hook,
		gate:   gate,
		policy: policy,
		norm:   input.Normalizer{Flags: flags},
		log:    logging.OrNop(log),
	}
}

// Start installs the hook and routes every normalized event to onEvent.
// It is a no-op when already running and a silent no-op, leaving the
// manager stopped, when the grant is missing. Installation failures return
// ErrInstallFailed and leave the manager stopped.
func (m *Manager) Start(onEvent func(input.Event)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle != nil {
		return nil
	}
	if !m.gate.HasCapability() {
		m.log.Info("hook not started: accessibility grant missing")
		return nil
	}
	m.state.Store(int32(Starting))
	handle, err := m.hook.Install(m.callback(onEvent))
	if err != nil {
		m.state.Store(int32(Stopped))
		m.log.Warn("hook install failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrInstallFailed, err)
	}
	m.handle = handle
	m.state.Store(int32(Running))
	m.log.Info("hook running")
	return nil
}

// Stop removes the hook. It is safe in any state.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		m.state.Store(int32(Stopped))
		return nil
	}
	err := m.handle.Close()
	m.handle = nil
	m.state.Store(int32(Stopped))
	st := m.Stats()
	m.log.Info("hook stopped",
		zap.Uint64("observed", st.Observed),
		zap.Uint64("swallowed", st.Swallowed),
		zap.Uint64("unknown", st.Unknown),
		zap.Uint64("panics", st.Panics),
	)
	return err
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Stats returns the callback counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Observed:  m.observed.Load(),
		Swallowed: m.swallowed.Load(),
		Unknown:   m.unknown.Load(),
		Panics:    m.panics.Load(),
	}
}

// callback builds the hook procedure: normalize, decide, forward, return.
// Every normalized event is forwarded whether or not it is swallowed.
func (m *Manager) callback(onEvent func(input.Event)) platform.Callback {
	return func(raw input.RawEvent) (decision platform.Decision) {
		decision = platform.Pass
		defer func() {
			if r := recover(); r != nil {
				m.panics.Add(1)
			}
		}()
		ev, ok := m.norm.Normalize(raw)
		if !ok {
			m.unknown.Add(1)
			return platform.Pass
		}
		m.observed.Add(1)
		if m.policy.IsBlocking(ev.Category()) {
			decision = platform.Swallow
			m.swallowed.Add(1)
		}
		if onEvent != nil {
			onEvent(ev)
		}
		return decision
	}
}
