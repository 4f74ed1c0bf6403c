package subscriber

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/uiloop"
)

// fakeTap counts lifecycle calls.
type fakeTap struct {
	mu      sync.Mutex
	starts  int
	stops   int
	onEvent func(input.Event)
	err     error
}

// Start records onEvent.
func (f *fakeTap) Start(onEvent func(input.Event)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.err != nil {
		return f.err
	}
	f.onEvent = onEvent
	return nil
}

// Stop clears onEvent.
func (f *fakeTap) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.onEvent = nil
	return nil
}

// emit fires ev through the registered callback.
func (f *fakeTap) emit(ev input.Event) {
	f.mu.Lock()
	cb := f.onEvent
	f.mu.Unlock()
	if cb != nil {
		cb(ev)
	}
}

// fakeCursor records visibility requests.
type fakeCursor struct {
	mu    sync.Mutex
	calls []bool
}

// Set records hidden.
func (f *fakeCursor) Set(hidden bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, hidden)
}

// recorder is a Sink collecting key codes.
type recorder struct {
	mu     sync.Mutex
	codes  []int
	closed bool
}

// Deliver records the key code.
func (r *recorder) Deliver(ev input.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, ev.Keyboard.Code)
}

// Close marks the recorder closed.
func (r *recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// snapshot returns the recorded codes and closed flag.
func (r *recorder) snapshot() ([]int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.codes...), r.closed
}

func key(code int) input.Event {
	return input.KeyboardOf(input.KeyboardEvent{Code: code, Kind: input.KeyDown})
}

// syncLoop waits for queued deliveries.
func syncLoop(t *testing.T, ui *uiloop.Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ui.Sync(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
}

// TestAttach_DeliversInOrder verifies ordered delivery and tap start.
func TestAttach_DeliversInOrder(t *testing.T) {
	ui := uiloop.New(64, nil)
	go ui.Run()
	defer ui.Stop()
	tap := &fakeTap{}
	ch := New(tap, ui, nil, nil, nil)
	rec := &recorder{}
	if err := ch.Attach(rec); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		tap.emit(key(i))
	}
	syncLoop(t, ui)
	codes, _ := rec.snapshot()
	if len(codes) != 20 {
		t.Fatalf("expected 20 events, got %d", len(codes))
	}
	for i, c := range codes {
		if c != i {
			t.Fatalf("expected order preserved at %d, got %d", i, c)
		}
	}
}

// TestAttach_LastWriterWins verifies a second sink supersedes the first.
func TestAttach_LastWriterWins(t *testing.T) {
	ui := uiloop.New(64, nil)
	tap := &fakeTap{}
	ch := New(tap, ui, nil, nil, nil)
	first, second := &recorder{}, &recorder{}
	_ = ch.Attach(first)
	tap.emit(key(1))
	_ = ch.Attach(second)
	tap.emit(key(2))
	go ui.Run()
	defer ui.Stop()
	syncLoop(t, ui)

	firstCodes, firstClosed := first.snapshot()
	secondCodes, secondClosed := second.snapshot()
	if len(firstCodes) != 0 || !firstClosed {
		t.Fatalf("expected superseded sink closed with stale events dropped, got %v closed=%v", firstCodes, firstClosed)
	}
	if len(secondCodes) != 1 || secondCodes[0] != 2 || secondClosed {
		t.Fatalf("unexpected second sink state: %v closed=%v", secondCodes, secondClosed)
	}
}

// TestDetach_StopsTapAndRestoresCursor verifies scoped release.
func TestDetach_StopsTapAndRestoresCursor(t *testing.T) {
	ui := uiloop.New(64, nil)
	go ui.Run()
	defer ui.Stop()
	tap := &fakeTap{}
	cur := &fakeCursor{}
	blocked := true
	ch := New(tap, ui, cur, func() bool { return blocked }, nil)
	rec := &recorder{}
	_ = ch.Attach(rec)
	if err := ch.Detach(); err != nil {
		t.Fatalf("detach failed: %v", err)
	}
	syncLoop(t, ui)
	if tap.stops != 1 || ch.Attached() {
		t.Fatalf("expected tap stopped and channel detached")
	}
	if len(cur.calls) != 2 || !cur.calls[0] || cur.calls[1] {
		t.Fatalf("expected re-hide on attach and restore on detach, got %v", cur.calls)
	}
	if _, closed := rec.snapshot(); !closed {
		t.Fatalf("expected sink closed on detach")
	}
	tap.emit(key(9))
	syncLoop(t, ui)
	if codes, _ := rec.snapshot(); len(codes) != 0 {
		t.Fatalf("expected no delivery after detach, got %v", codes)
	}
}

// TestDetachSink_IgnoresStaleSink verifies a superseded sink cannot detach its successor.
func TestDetachSink_IgnoresStaleSink(t *testing.T) {
	ui := uiloop.New(64, nil)
	go ui.Run()
	defer ui.Stop()
	tap := &fakeTap{}
	ch := New(tap, ui, nil, nil, nil)
	first, second := &recorder{}, &recorder{}
	_ = ch.Attach(first)
	_ = ch.Attach(second)
	if err := ch.DetachSink(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ch.Attached() || tap.stops != 0 {
		t.Fatalf("expected second sink to stay attached")
	}
}

// TestAttach_StartFailureRollsBack verifies a failed install leaves nothing bound and the cursor shown.
func TestAttach_StartFailureRollsBack(t *testing.T) {
	ui := uiloop.New(64, nil)
	go ui.Run()
	defer ui.Stop()
	tap := &fakeTap{err: errors.New("refused")}
	cur := &fakeCursor{}
	ch := New(tap, ui, cur, func() bool { return true }, nil)
	rec := &recorder{}
	if err := ch.Attach(rec); err == nil {
		t.Fatalf("expected attach to fail")
	}
	if ch.Attached() {
		t.Fatalf("expected no sink bound after a failed install")
	}
	if len(cur.calls) != 2 || !cur.calls[0] || cur.calls[1] {
		t.Fatalf("expected hide then restore, got %v", cur.calls)
	}
	syncLoop(t, ui)
	if _, closed := rec.snapshot(); closed {
		t.Fatalf("expected the caller to keep ownership of the sink")
	}

	tap.err = nil
	if err := ch.Attach(rec); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if !ch.Attached() {
		t.Fatalf("expected sink bound after retry")
	}
}
