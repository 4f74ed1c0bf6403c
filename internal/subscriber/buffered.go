package subscriber

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/logging"
)

// WriteFunc sends one event over a transport.
type WriteFunc func(ev input.Event) error

// Buffered is a Sink that hands events to a writer goroutine so a slow
// transport never stalls the UI loop. When the buffer is full the event is
// dropped and counted.
type Buffered struct {
	out     chan input.Event
	write   WriteFunc
	log     *zap.Logger
	dropped atomic.Uint64

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewBuffered starts a writer goroutine draining up to size pending events
// through write. The goroutine exits after Close or on the first write error.
func NewBuffered(size int, write WriteFunc, log *zap.Logger) *Buffered {
	if size <= 0 {
		size = 1
	}
	b := &Buffered{
		out:   make(chan input.Event, size),
		write: write,
		log:   logging.OrNop(log),
		done:  make(chan struct{}),
	}
	go b.loop()
	return b
}

// Deliver queues ev for the writer.
func (b *Buffered) Deliver(ev input.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.out <- ev:
	default:
		if b.dropped.Add(1) == 1 {
			b.log.Warn("stream buffer full, dropping events")
		}
	}
}

// Close stops accepting events; queued events are still written.
func (b *Buffered) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.out)
}

// Done is closed once the writer goroutine has exited.
func (b *Buffered) Done() <-chan struct{} {
	return b.done
}

// Dropped returns how many events overflowed the buffer.
func (b *Buffered) Dropped() uint64 {
	return b.dropped.Load()
}

// loop writes events until the buffer is closed or a write fails.
func (b *Buffered) loop() {
	defer close(b.done)
	for ev := range b.out {
		if err := b.write(ev); err != nil {
			b.log.Debug("stream write failed", zap.Error(err))
			b.discard()
			return
		}
	}
}

// discard drains the buffer after a failed write so Deliver never blocks.
func (b *Buffered) discard() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	for {
		select {
		case _, ok := <-b.out:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
