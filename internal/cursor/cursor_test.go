package cursor

import (
	"context"
	"testing"
	"time"

	"github.com/frudas24/inputtap/internal/testutil"
	"github.com/frudas24/inputtap/internal/uiloop"
)

// newController returns a controller backed by a running UI loop.
func newController(t *testing.T) (*Controller, *testutil.FakeDisplay, *uiloop.Dispatcher) {
	t.Helper()
	ui := uiloop.New(16, nil)
	go ui.Run()
	t.Cleanup(ui.Stop)
	display := testutil.NewFakeDisplay(7)
	return New(display, ui, nil), display, ui
}

// syncLoop waits for queued cursor work.
func syncLoop(t *testing.T, ui *uiloop.Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ui.Sync(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
}

// TestHide_Idempotent verifies a second hide neither re-saves nor re-hides.
func TestHide_Idempotent(t *testing.T) {
	c, display, ui := newController(t)
	c.Hide()
	display.SwapCursor(9)
	c.Hide()
	syncLoop(t, ui)
	if display.Hides() != 1 {
		t.Fatalf("expected 1 hide, got %d", display.Hides())
	}
	st := c.State()
	if !st.Hidden || st.Saved != 7 {
		t.Fatalf("expected saved cursor 7, got %+v", st)
	}
}

// TestShow_RestoresSavedCursor verifies the pre-hide cursor is reapplied and cleared.
func TestShow_RestoresSavedCursor(t *testing.T) {
	c, display, ui := newController(t)
	c.Hide()
	syncLoop(t, ui)
	display.SwapCursor(3)
	c.Show()
	c.Show()
	syncLoop(t, ui)
	if display.Hidden() {
		t.Fatalf("expected cursor visible")
	}
	applied := display.Applied()
	if len(applied) != 1 || applied[0] != 7 {
		t.Fatalf("expected cursor 7 reapplied once, got %v", applied)
	}
	if st := c.State(); st.Hidden || st.Saved != 0 {
		t.Fatalf("expected cleared state, got %+v", st)
	}
}

// TestShow_WithoutHideIsNoop verifies show on a visible cursor does nothing.
func TestShow_WithoutHideIsNoop(t *testing.T) {
	c, display, ui := newController(t)
	c.Show()
	syncLoop(t, ui)
	if calls := display.Calls(); len(calls) != 0 {
		t.Fatalf("expected no display calls, got %v", calls)
	}
}

// TestTransitions_ApplyInOrder verifies hide/show/hide lands hidden.
func TestTransitions_ApplyInOrder(t *testing.T) {
	c, display, ui := newController(t)
	c.Hide()
	c.Show()
	c.Hide()
	syncLoop(t, ui)
	if !display.Hidden() || !c.State().Hidden || !c.Requested() {
		t.Fatalf("expected hidden after hide/show/hide")
	}
	want := []string{"current", "hide", "show", "set", "current", "hide"}
	got := display.Calls()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
