package loop

import (
	"log/slog"
	"sync/atomic"
)

// DefaultUserEventCapacity is the queue size used when WithUserEvents is
// given a non-positive capacity.
const DefaultUserEventCapacity = 256

// Proxy injects user events into a running (or not yet running) loop from
// any goroutine.
type Proxy[T any] struct {
	ch     chan T
	closed atomic.Bool
	wake   func()
	log    *slog.Logger
}

func newProxy[T any](capacity int, wake func(), log *slog.Logger) *Proxy[T] {
	if capacity <= 0 {
		capacity = DefaultUserEventCapacity
	}
	return &Proxy[T]{ch: make(chan T, capacity), wake: wake, log: log}
}

// Send queues ev for delivery to the handler's UserEvent. It never blocks:
// when the queue is full, or the loop is exiting, the event is dropped and
// Send returns false.
func (p *Proxy[T]) Send(ev T) bool {
	if p.closed.Load() {
		return false
	}
	select {
	case p.ch <- ev:
	default:
		p.log.Debug("user event queue full, dropping event", "capacity", cap(p.ch))
		return false
	}
	if p.wake != nil {
		p.wake()
	}
	return true
}

// Pending returns the number of queued events.
func (p *Proxy[T]) Pending() int {
	return len(p.ch)
}

// close stops accepting events. The channel itself is never closed so a
// late Send cannot panic.
func (p *Proxy[T]) close() {
	p.closed.Store(true)
}

// drain delivers at most the events queued at call time, stopping early
// when stop reports true.
func (p *Proxy[T]) drain(deliver func(T), stop func() bool) {
	for n := len(p.ch); n > 0 && !stop(); n-- {
		select {
		case ev := <-p.ch:
			deliver(ev)
		default:
			return
		}
	}
}
