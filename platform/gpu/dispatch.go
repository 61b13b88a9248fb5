package gpu

import (
	"sync"

	"GPUWindow/loop"
)

// dispatcher serializes calls into a Sink. gogpu may invoke callbacks from
// more than one thread; whichever caller finds the dispatcher idle drains
// the queue, everyone else only appends.
type dispatcher struct {
	sink loop.Sink

	mu       sync.Mutex
	queue    []func(loop.Sink)
	draining bool
}

func (d *dispatcher) dispatch(fn func(loop.Sink)) {
	d.mu.Lock()
	if d.sink == nil {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, fn)
	if d.draining {
		d.mu.Unlock()
		return
	}
	d.draining = true
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()
		next(d.sink)
		d.mu.Lock()
	}
	d.draining = false
	d.mu.Unlock()
}
