package tap

import (
	"errors"
	"testing"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/platform"
	"github.com/frudas24/inputtap/internal/testutil"
)

// staticGate is a fixed capability answer.
type staticGate bool

// HasCapability returns the fixed answer.
func (g staticGate) HasCapability() bool { return bool(g) }

// setBlocker blocks a fixed category set.
type setBlocker input.CategorySet

// IsBlocking reports membership.
func (b setBlocker) IsBlocking(c input.Category) bool { return input.CategorySet(b).Has(c) }

// TestStart_Idempotent verifies a second start installs nothing.
func TestStart_Idempotent(t *testing.T) {
	hook := &testutil.FakeHook{}
	m := New(hook, staticGate(true), setBlocker(0), input.IdentityFlags, nil)
	if err := m.Start(nil); err != nil {
		t.Fatalf("expected start, got %v", err)
	}
	if err := m.Start(nil); err != nil {
		t.Fatalf("expected second start no-op, got %v", err)
	}
	if hook.Installs() != 1 {
		t.Fatalf("expected 1 install, got %d", hook.Installs())
	}
	if m.State() != Running {
		t.Fatalf("expected running, got %s", m.State())
	}
}

// TestStart_NoPermissionIsSilent verifies a missing grant leaves the manager stopped without error.
func TestStart_NoPermissionIsSilent(t *testing.T) {
	hook := &testutil.FakeHook{}
	m := New(hook, staticGate(false), setBlocker(0), input.IdentityFlags, nil)
	if err := m.Start(nil); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if hook.Installs() != 0 || m.State() != Stopped {
		t.Fatalf("expected no install and stopped, got installs=%d state=%s", hook.Installs(), m.State())
	}
}

// TestStart_InstallFailure verifies refusal is reported and the manager stays stopped.
func TestStart_InstallFailure(t *testing.T) {
	hook := &testutil.FakeHook{Err: platform.ErrHookRefused}
	m := New(hook, staticGate(true), setBlocker(0), input.IdentityFlags, nil)
	err := m.Start(nil)
	if !errors.Is(err, ErrInstallFailed) {
		t.Fatalf("expected ErrInstallFailed, got %v", err)
	}
	if m.State() != Stopped {
		t.Fatalf("expected stopped, got %s", m.State())
	}
}

// TestStop_AnyState verifies stop is safe repeatedly and releases the hook.
func TestStop_AnyState(t *testing.T) {
	hook := &testutil.FakeHook{}
	m := New(hook, staticGate(true), setBlocker(0), input.IdentityFlags, nil)
	if err := m.Stop(); err != nil {
		t.Fatalf("expected stop from stopped to succeed, got %v", err)
	}
	_ = m.Start(nil)
	_ = m.Stop()
	_ = m.Stop()
	if hook.Live() || hook.Closes() != 1 {
		t.Fatalf("expected one close and no live hook, got closes=%d", hook.Closes())
	}
	_ = m.Start(nil)
	if hook.Installs() != 2 {
		t.Fatalf("expected restart to install again, got %d", hook.Installs())
	}
}

// TestCallback_ReportButSuppress verifies blocked events are swallowed and still forwarded.
func TestCallback_ReportButSuppress(t *testing.T) {
	hook := &testutil.FakeHook{}
	m := New(hook, staticGate(true), setBlocker(input.CategoryKeyboard.Bit()), input.IdentityFlags, nil)
	var got []input.Event
	_ = m.Start(func(ev input.Event) { got = append(got, ev) })

	decision, _ := hook.Fire(testutil.KeyDown(53))
	if decision != platform.Swallow {
		t.Fatalf("expected keyboard swallowed")
	}
	decision, _ = hook.Fire(testutil.MouseMove(1, 2))
	if decision != platform.Pass {
		t.Fatalf("expected pointer passed")
	}
	if len(got) != 2 || got[0].Keyboard == nil || got[1].Pointer == nil {
		t.Fatalf("expected both events forwarded, got %+v", got)
	}
	st := m.Stats()
	if st.Observed != 2 || st.Swallowed != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

// TestCallback_UnknownDropped verifies unknown raw kinds pass and are not forwarded.
func TestCallback_UnknownDropped(t *testing.T) {
	hook := &testutil.FakeHook{}
	m := New(hook, staticGate(true), setBlocker(input.AllCategories), input.IdentityFlags, nil)
	forwarded := 0
	_ = m.Start(func(input.Event) { forwarded++ })
	decision, _ := hook.Fire(testutil.Raw{Type: input.RawUnknown})
	if decision != platform.Pass || forwarded != 0 {
		t.Fatalf("expected pass and no forward, got %v forwarded=%d", decision, forwarded)
	}
	if m.Stats().Unknown != 1 {
		t.Fatalf("expected unknown counter 1, got %d", m.Stats().Unknown)
	}
}

// TestCallback_PanicPasses verifies a panicking consumer never breaks the hook.
func TestCallback_PanicPasses(t *testing.T) {
	hook := &testutil.FakeHook{}
	m := New(hook, staticGate(true), setBlocker(0), input.IdentityFlags, nil)
	_ = m.Start(func(input.Event) { panic("sink") })
	decision, ok := hook.Fire(testutil.KeyDown(1))
	if !ok || decision != platform.Pass {
		t.Fatalf("expected pass after panic, got %v", decision)
	}
	if m.Stats().Panics != 1 {
		t.Fatalf("expected panic counted, got %d", m.Stats().Panics)
	}
}
