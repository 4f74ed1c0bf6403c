// Package uiloop runs work on the single UI-affinity thread.
//
// Producers enqueue funcs into a bounded FIFO; the host calls Run on the
// thread that owns UI state (the main thread on macOS) and every func runs
// there, one at a time, in enqueue order.
package uiloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/logging"
)

// ErrStopped is returned once the dispatcher no longer accepts work.
var ErrStopped = errors.New("ui loop stopped")

// DefaultQueueSize bounds the queue when no size is configured.
const DefaultQueueSize = 1024

// Dispatcher is a bounded, order-preserving queue with one consumer.
type Dispatcher struct {
	queue    chan func()
	stopping chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	// mu is held shared by every enqueue and exclusively while Stop flips
	// stopped, so nothing lands in the queue after Run starts draining.
	mu       sync.RWMutex
	stopped  bool
	running  atomic.Bool
	dropped  atomic.Uint64
	log      *zap.Logger
}

// New returns a dispatcher holding at most size pending funcs.
func New(size int, log *zap.Logger) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Dispatcher{
		queue:    make(chan func(), size),
		stopping: make(chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      logging.OrNop(log),
	}
}

// Run consumes the queue on the calling thread until Stop, then drains what
// is left and returns. Only the first call consumes; later calls return at once.
func (d *Dispatcher) Run() {
	if !d.running.CompareAndSwap(false, true) {
		return
	}
	defer close(d.done)
	for {
		select {
		case fn := <-d.queue:
			d.exec(fn)
		case <-d.stop:
			for {
				select {
				case fn := <-d.queue:
					d.exec(fn)
				default:
					return
				}
			}
		}
	}
}

// exec runs fn, keeping the loop alive if it panics.
func (d *Dispatcher) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("ui task panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

// TryPost enqueues fn without blocking. It reports false and counts a drop
// when the queue is full or the dispatcher is stopped.
func (d *Dispatcher) TryPost(fn func()) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.dropped.Add(1)
		return false
	}
	select {
	case d.queue <- fn:
		return true
	default:
		d.dropped.Add(1)
		return false
	}
}

// Post enqueues fn, waiting for room until ctx ends.
func (d *Dispatcher) Post(ctx context.Context, fn func()) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.queue <- fn:
		return nil
	case <-d.stopping:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sync waits until every func enqueued before it has run.
func (d *Dispatcher) Sync(ctx context.Context) error {
	marker := make(chan struct{})
	if err := d.Post(ctx, func() { close(marker) }); err != nil {
		return err
	}
	select {
	case <-marker:
		return nil
	case <-d.done:
		select {
		case <-marker:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new work and lets Run drain the queue and return.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopping)
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()
		close(d.stop)
	})
}

// Done is closed when Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Dropped returns how many TryPost calls were refused.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Pending returns the number of queued funcs.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}
