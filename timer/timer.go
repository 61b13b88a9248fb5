// Package timer produces periodic user events for the event loop from a
// background goroutine.
//
// The ticker never touches application state itself: it only posts events
// through a Sender, and the loop delivers them on the dispatch goroutine.
package timer

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"GPUWindow/logging"
)

// Sender is the producer side of a user event queue. loop.Proxy satisfies it.
type Sender[T any] interface {
	Send(ev T) bool
}

// Ticker posts the same event at a fixed interval.
type Ticker[T any] struct {
	interval time.Duration
	event    T
	sender   Sender[T]
	log      *slog.Logger

	sent    atomic.Int64
	dropped atomic.Int64
}

// New returns a ticker that sends ev to s every interval.
func New[T any](interval time.Duration, ev T, s Sender[T], log *slog.Logger) (*Ticker[T], error) {
	if interval <= 0 {
		return nil, errors.New("timer interval must be positive")
	}
	if s == nil {
		return nil, errors.New("timer needs a sender")
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Ticker[T]{interval: interval, event: ev, sender: s, log: log}, nil
}

// Run sends events until ctx is cancelled. A dropped send is counted, not
// retried.
func (t *Ticker[T]) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Debug("timer stopped", "sent", t.Sent(), "dropped", t.Dropped())
			return
		case <-ticker.C:
			if t.sender.Send(t.event) {
				t.sent.Add(1)
			} else {
				t.dropped.Add(1)
			}
		}
	}
}

// Sent returns how many events were queued.
func (t *Ticker[T]) Sent() int64 { return t.sent.Load() }

// Dropped returns how many events the sender refused.
func (t *Ticker[T]) Dropped() int64 { return t.dropped.Load() }
