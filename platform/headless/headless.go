// Package headless is an in-process Platform without a display. Events are
// injected by calling its methods from any goroutine; Run delivers them in
// order on its own goroutine. It backs display-less runs and tests.
package headless

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"GPUWindow/control"
	"GPUWindow/event"
	"GPUWindow/logging"
	"GPUWindow/loop"
	"GPUWindow/window"
)

// DefaultIdleTimeout bounds how long Run sleeps in Wait mode without any
// event before emitting an iteration boundary.
const DefaultIdleTimeout = time.Second

// ErrWindowLimit is returned by CreateWindow once the configured number of
// windows exists.
var ErrWindowLimit = errors.New("window limit reached")

// ErrStopped is returned by Dispatch when Run is not accepting events.
var ErrStopped = errors.New("headless platform is not running")

type item struct {
	apply func(loop.Sink)
	done  chan struct{}
}

// Option configures a Platform.
type Option func(*Platform)

// WithInitError makes Init fail with err.
func WithInitError(err error) Option {
	return func(p *Platform) { p.initErr = err }
}

// WithWindowLimit caps the number of windows CreateWindow will realize.
func WithWindowLimit(n int) Option {
	return func(p *Platform) { p.windowLimit = n }
}

// WithScaleFactor sets the pixel density reported for every window.
func WithScaleFactor(f float64) Option {
	return func(p *Platform) { p.scale = f }
}

// WithIdleTimeout sets how long Wait mode sleeps without events.
func WithIdleTimeout(d time.Duration) Option {
	return func(p *Platform) { p.idle = d }
}

// WithAutoResume makes Run deliver Resumed as soon as it starts, the way a
// desktop platform does at launch.
func WithAutoResume() Option {
	return func(p *Platform) { p.autoResume = true }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Platform) { p.log = l }
}

// Platform implements loop.Platform.
type Platform struct {
	initErr     error
	windowLimit int
	scale       float64
	idle        time.Duration
	autoResume  bool
	log         *slog.Logger

	mu      sync.Mutex
	queue   []item
	windows []*window.Window
	nextID  window.ID

	signal  chan struct{}
	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}

	quitOnce   sync.Once
	quitCalls  atomic.Int32
	flow       atomic.Int32
	running    atomic.Bool
	iterations atomic.Int64
}

var _ loop.Platform = (*Platform)(nil)

// New returns a headless platform.
func New(opts ...Option) *Platform {
	p := &Platform{
		scale:   1,
		idle:    DefaultIdleTimeout,
		nextID:  1,
		signal:  make(chan struct{}, 1),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = logging.Discard()
	}
	return p
}

// Name implements loop.Platform.
func (p *Platform) Name() string { return "headless" }

// Init implements loop.Platform.
func (p *Platform) Init() error { return p.initErr }

// CreateWindow implements loop.Platform.
func (p *Platform) CreateWindow(attrs window.Attributes) (*window.Window, error) {
	p.mu.Lock()
	if p.windowLimit > 0 && len(p.windows) >= p.windowLimit {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w (%d)", ErrWindowLimit, p.windowLimit)
	}
	id := p.nextID
	p.nextID++
	s := &surface{p: p, id: id}
	w := window.New(id, attrs, s)
	p.windows = append(p.windows, w)
	p.mu.Unlock()

	size := attrs.InnerSize.ToPhysical(p.scale)
	p.push(func(sink loop.Sink) {
		sink.WindowEvent(id, event.Resized{Size: size})
	}, nil)
	w.RequestRedraw()
	return w, nil
}

// Windows returns the windows realized so far.
func (p *Platform) Windows() []*window.Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*window.Window(nil), p.windows...)
}

// SetControlFlow implements loop.Platform.
func (p *Platform) SetControlFlow(flow control.Flow) {
	p.flow.Store(int32(flow))
	p.notify(p.signal)
}

// ControlFlow returns the cadence Run currently follows.
func (p *Platform) ControlFlow() control.Flow {
	return control.Flow(p.flow.Load())
}

// Wake implements loop.Platform.
func (p *Platform) Wake() {
	p.notify(p.wake)
}

// Quit implements loop.Platform.
func (p *Platform) Quit() {
	p.quitCalls.Add(1)
	p.quitOnce.Do(func() { close(p.quit) })
}

// QuitCalls returns how many times Quit was called.
func (p *Platform) QuitCalls() int {
	return int(p.quitCalls.Load())
}

// Iterations returns how many AboutToWait boundaries Run has emitted.
func (p *Platform) Iterations() int64 {
	return p.iterations.Load()
}

// Stopped is closed when Run returns.
func (p *Platform) Stopped() <-chan struct{} {
	return p.stopped
}

// Run implements loop.Platform.
func (p *Platform) Run(sink loop.Sink) error {
	if !p.running.CompareAndSwap(false, true) {
		return errors.New("headless platform already running")
	}
	defer close(p.stopped)

	if p.autoResume {
		sink.Resumed()
	}
	for !p.quitting() {
		p.dispatchQueued(sink)
		if p.quitting() {
			break
		}
		p.boundary(sink)
		if p.quitting() {
			break
		}
		if control.Flow(p.flow.Load()) == control.Wait {
			p.sleep(sink)
		} else {
			select {
			case <-p.wake:
				sink.Wake()
			default:
				runtime.Gosched()
			}
		}
	}
	p.log.Debug("headless loop stopped", "iterations", p.Iterations())
	return nil
}

func (p *Platform) boundary(sink loop.Sink) {
	p.iterations.Add(1)
	sink.AboutToWait()
}

// sleep blocks until an event, a wake-up, a control flow change, Quit, or
// the idle timeout.
func (p *Platform) sleep(sink loop.Sink) {
	idle := time.NewTimer(p.idle)
	defer idle.Stop()
	select {
	case <-p.quit:
	case <-p.signal:
	case <-p.wake:
		sink.Wake()
	case <-idle.C:
	}
}

func (p *Platform) dispatchQueued(sink loop.Sink) {
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		it := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		it.apply(sink)
		if it.done != nil {
			close(it.done)
		}
		if p.quitting() {
			p.failPending()
			return
		}
	}
}

func (p *Platform) failPending() {
	p.mu.Lock()
	pending := p.queue
	p.queue = nil
	p.mu.Unlock()
	for _, it := range pending {
		if it.done != nil {
			close(it.done)
		}
	}
}

func (p *Platform) quitting() bool {
	select {
	case <-p.quit:
		return true
	default:
		return false
	}
}

func (p *Platform) notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (p *Platform) push(apply func(loop.Sink), done chan struct{}) {
	p.mu.Lock()
	p.queue = append(p.queue, item{apply: apply, done: done})
	p.mu.Unlock()
	p.notify(p.signal)
}

// Post queues apply for Run without waiting for it.
func (p *Platform) Post(apply func(loop.Sink)) {
	p.push(apply, nil)
}

// Dispatch queues apply and waits until Run has handled it. It returns
// ErrStopped if Run returns first.
func (p *Platform) Dispatch(apply func(loop.Sink)) error {
	select {
	case <-p.stopped:
		return ErrStopped
	default:
	}
	done := make(chan struct{})
	p.push(apply, done)
	select {
	case <-done:
		return nil
	case <-p.stopped:
		return ErrStopped
	}
}

// Resume delivers a Resumed notification and waits for it.
func (p *Platform) Resume() error {
	return p.Dispatch(func(s loop.Sink) { s.Resumed() })
}

// Suspend delivers a Suspended notification and waits for it.
func (p *Platform) Suspend() error {
	return p.Dispatch(func(s loop.Sink) { s.Suspended() })
}

// Send delivers ev for window id and waits for it.
func (p *Platform) Send(id window.ID, ev event.WindowEvent) error {
	return p.Dispatch(func(s loop.Sink) { s.WindowEvent(id, ev) })
}

// Key delivers a keyboard event and waits for it.
func (p *Platform) Key(id window.ID, code event.KeyCode, state event.ElementState) error {
	return p.Send(id, event.KeyboardInput{PhysicalKey: event.Code(code), State: state})
}

// Terminate makes Run return without a Quit request, the way a platform
// shuts down after its last window closed.
func (p *Platform) Terminate() {
	p.quitOnce.Do(func() { close(p.quit) })
}

type surface struct {
	p       *Platform
	id      window.ID
	pending atomic.Bool
}

func (s *surface) RequestRedraw() {
	if !s.pending.CompareAndSwap(false, true) {
		return
	}
	s.p.Post(func(sink loop.Sink) {
		s.pending.Store(false)
		sink.WindowEvent(s.id, event.RedrawRequested{})
	})
}

func (s *surface) ScaleFactor() float64 { return s.p.scale }
