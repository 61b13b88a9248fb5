// Package loop is the event source of the application: it owns a Platform,
// runs its dispatch loop and translates what the platform reports into calls
// on an ApplicationHandler.
//
// Dispatch is single threaded. Handler callbacks run to completion on the
// goroutine that called Run and are never reentered. The only entry point
// that is safe from other goroutines is Proxy.Send.
package loop

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"GPUWindow/control"
	"GPUWindow/event"
	"GPUWindow/logging"
	"GPUWindow/window"
)

// Builder configures an EventLoop.
type Builder[T any] struct {
	platform   Platform
	userEvents bool
	capacity   int
	flow       control.Flow
	log        *slog.Logger
}

// NewBuilder starts configuring a loop on top of p.
func NewBuilder[T any](p Platform) *Builder[T] {
	return &Builder[T]{platform: p, flow: control.Poll}
}

// WithUserEvents allocates a queue for user events of type T. A
// non-positive capacity selects DefaultUserEventCapacity.
func (b *Builder[T]) WithUserEvents(capacity int) *Builder[T] {
	b.userEvents = true
	b.capacity = capacity
	return b
}

// WithControlFlow sets the initial dispatch cadence.
func (b *Builder[T]) WithControlFlow(flow control.Flow) *Builder[T] {
	b.flow = flow
	return b
}

// WithLogger sets the logger used for lifecycle diagnostics.
func (b *Builder[T]) WithLogger(l *slog.Logger) *Builder[T] {
	b.log = l
	return b
}

// Build initializes the platform. Failures match ErrPlatformInit.
func (b *Builder[T]) Build() (*EventLoop[T], error) {
	if b.platform == nil {
		return nil, &PlatformInitError{Platform: "none", Err: fmt.Errorf("no platform configured")}
	}
	log := b.log
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("platform", b.platform.Name())

	if err := b.platform.Init(); err != nil {
		return nil, &PlatformInitError{Platform: b.platform.Name(), Err: err}
	}

	l := &EventLoop[T]{platform: b.platform, log: log}
	if b.userEvents {
		l.proxy = newProxy[T](b.capacity, b.platform.Wake, log)
	}
	l.SetControlFlow(b.flow)
	return l, nil
}

// New builds a loop without user events.
func New[T any](p Platform) (*EventLoop[T], error) {
	return NewBuilder[T](p).Build()
}

// EventLoop dispatches platform and user events to an ApplicationHandler.
type EventLoop[T any] struct {
	platform Platform
	proxy    *Proxy[T]
	log      *slog.Logger

	state   atomic.Int32
	flow    atomic.Int32
	started atomic.Bool
	quit    sync.Once
}

// Proxy returns the producer handle for user events. It stays valid for the
// whole life of the loop, including after Run returns.
func (l *EventLoop[T]) Proxy() (*Proxy[T], error) {
	if l.proxy == nil {
		return nil, ErrUserEventsDisabled
	}
	return l.proxy, nil
}

// State returns the current lifecycle phase. It may be called from any
// goroutine.
func (l *EventLoop[T]) State() State {
	return State(l.state.Load())
}

// ControlFlow returns the active dispatch cadence.
func (l *EventLoop[T]) ControlFlow() control.Flow {
	return control.Flow(l.flow.Load())
}

// SetControlFlow changes the dispatch cadence. Invalid values are ignored.
func (l *EventLoop[T]) SetControlFlow(flow control.Flow) {
	if !flow.Valid() {
		l.log.Warn("ignoring invalid control flow", "flow", flow)
		return
	}
	l.flow.Store(int32(flow))
	l.platform.SetControlFlow(flow)
}

// Run hands control to the platform and dispatches events to h until the
// loop exits. Handler failures are never reported here; Run only returns a
// platform error, or ErrLoopReused when called twice.
func (l *EventLoop[T]) Run(h ApplicationHandler[T]) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrLoopReused
	}
	r := &runner[T]{loop: l, handler: h}
	l.log.Info("event loop starting", "control_flow", l.ControlFlow())

	err := l.platform.Run(r)
	r.terminate()

	if err != nil {
		l.log.Error("platform stopped with error", "error", err)
		return fmt.Errorf("run %s platform: %w", l.platform.Name(), err)
	}
	l.log.Info("event loop terminated")
	return nil
}

func (l *EventLoop[T]) setState(s State) {
	old := State(l.state.Swap(int32(s)))
	if old != s {
		l.log.Debug("loop state", "from", old, "to", s)
	}
}

// requestExit moves the loop to Exiting and asks the platform to stop. Only
// the first call has any effect.
func (l *EventLoop[T]) requestExit() {
	l.quit.Do(func() {
		l.setState(Exiting)
		if l.proxy != nil {
			l.proxy.close()
		}
		l.platform.Quit()
	})
}

// runner is the Sink handed to the platform and the ActiveEventLoop handed
// to the handler.
type runner[T any] struct {
	loop      *EventLoop[T]
	handler   ApplicationHandler[T]
	resuming  bool
	finalized bool
}

func (r *runner[T]) exiting() bool {
	return r.loop.State() >= Exiting
}

// Resumed implements Sink.
func (r *runner[T]) Resumed() {
	if r.exiting() {
		return
	}
	r.loop.setState(Activated)
	r.resuming = true
	r.handler.Resumed(r)
	r.resuming = false
	if !r.exiting() {
		r.loop.setState(Running)
	}
}

// Suspended implements Sink.
func (r *runner[T]) Suspended() {
	if r.exiting() {
		return
	}
	if sh, ok := r.handler.(SuspendHandler); ok {
		sh.Suspended(r)
	}
}

// WindowEvent implements Sink.
func (r *runner[T]) WindowEvent(id window.ID, ev event.WindowEvent) {
	if r.exiting() || ev == nil {
		return
	}
	r.handler.WindowEvent(r, id, ev)
}

// AboutToWait implements Sink.
func (r *runner[T]) AboutToWait() {
	r.drain()
	if r.exiting() {
		return
	}
	if ah, ok := r.handler.(AboutToWaitHandler); ok {
		ah.AboutToWait(r)
	}
}

// Wake implements Sink.
func (r *runner[T]) Wake() {
	r.drain()
}

func (r *runner[T]) drain() {
	p := r.loop.proxy
	if p == nil || r.exiting() {
		return
	}
	p.drain(func(ev T) { r.handler.UserEvent(r, ev) }, r.exiting)
}

// terminate runs once Platform.Run has returned.
func (r *runner[T]) terminate() {
	if r.finalized {
		return
	}
	r.finalized = true
	r.loop.requestExit()
	if eh, ok := r.handler.(ExitHandler); ok {
		eh.Exiting(r)
	}
	r.loop.setState(Terminated)
}

// CreateWindow implements ActiveEventLoop.
func (r *runner[T]) CreateWindow(attrs window.Attributes) (*window.Window, error) {
	if !r.resuming || r.loop.State() != Activated {
		return nil, &WindowCreationError{Title: attrs.Title, Err: ErrNotActivated}
	}
	if err := attrs.Validate(); err != nil {
		return nil, &WindowCreationError{Title: attrs.Title, Err: err}
	}
	w, err := r.loop.platform.CreateWindow(attrs)
	if err != nil {
		return nil, &WindowCreationError{Title: attrs.Title, Err: err}
	}
	r.loop.log.Info("window created", "id", w.ID(), "title", w.Title(),
		"width", attrs.InnerSize.Width, "height", attrs.InnerSize.Height)
	return w, nil
}

// Exit implements ActiveEventLoop.
func (r *runner[T]) Exit() {
	r.loop.requestExit()
}

// Exiting implements ActiveEventLoop.
func (r *runner[T]) Exiting() bool {
	return r.exiting()
}

// SetControlFlow implements ActiveEventLoop.
func (r *runner[T]) SetControlFlow(flow control.Flow) {
	r.loop.SetControlFlow(flow)
}

// ControlFlow implements ActiveEventLoop.
func (r *runner[T]) ControlFlow() control.Flow {
	return r.loop.ControlFlow()
}
