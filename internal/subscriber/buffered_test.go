package subscriber

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/frudas24/inputtap/internal/input"
)

// keyEvent builds a keyboard event with code.
func keyEvent(code int) input.Event {
	return input.KeyboardOf(input.KeyboardEvent{Code: code, Kind: input.KeyDown})
}

// waitDone waits for the writer goroutine to exit.
func waitDone(t *testing.T, b *Buffered) {
	t.Helper()
	select {
	case <-b.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected writer to exit")
	}
}

// TestBuffered_WritesInOrder verifies queued events are written in order before Close completes.
func TestBuffered_WritesInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []int
	b := NewBuffered(8, func(ev input.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev.Keyboard.Code)
		return nil
	}, nil)
	for i := 1; i <= 5; i++ {
		b.Deliver(keyEvent(i))
	}
	b.Close()
	waitDone(t, b)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 5 {
		t.Fatalf("expected 5 writes, got %v", got)
	}
	for i, code := range got {
		if code != i+1 {
			t.Fatalf("expected code %d at %d, got %d", i+1, i, code)
		}
	}
}

// TestBuffered_DropsWhenFull verifies a stalled writer causes counted drops instead of blocking.
func TestBuffered_DropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	b := NewBuffered(1, func(input.Event) error {
		<-release
		return nil
	}, nil)
	for i := 0; i < 10; i++ {
		b.Deliver(keyEvent(i))
	}
	if b.Dropped() == 0 {
		t.Fatalf("expected drops, got 0")
	}
	close(release)
	b.Close()
	waitDone(t, b)
}

// TestBuffered_StopsOnWriteError verifies a failed write ends the writer and later events are ignored.
func TestBuffered_StopsOnWriteError(t *testing.T) {
	b := NewBuffered(4, func(input.Event) error {
		return errors.New("broken pipe")
	}, nil)
	b.Deliver(keyEvent(1))
	waitDone(t, b)
	b.Deliver(keyEvent(2))
	b.Close()
	b.Close()
}
