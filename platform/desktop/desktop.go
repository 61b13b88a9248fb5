// Package desktop is the fyne-backed Platform. It shows a single window
// whose whole content is a bare surface a renderer can later present to.
//
// fyne runs every callback on its main goroutine, which is the dispatch
// goroutine of the loop. Events produced while another event is being
// dispatched (for example a layout pass triggered by Show inside Resumed)
// are queued and delivered right after it, so the Sink is never reentered.
package desktop

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"

	"GPUWindow/control"
	"GPUWindow/event"
	"GPUWindow/logging"
	"GPUWindow/loop"
	"GPUWindow/window"
)

// AppID is the fyne application identifier.
const AppID = "io.gpuwindow.shell"

// DefaultFrameInterval is the cadence of iteration boundaries in Poll mode.
const DefaultFrameInterval = 16 * time.Millisecond

var (
	errNoDisplay    = errors.New("no display server: neither DISPLAY nor WAYLAND_DISPLAY is set")
	errSingleWindow = errors.New("desktop platform supports a single window")
)

// Option configures a Platform.
type Option func(*Platform)

// WithApp uses an existing fyne application instead of creating one in
// Init. Tests pass fyne's test app here.
func WithApp(a fyne.App) Option {
	return func(p *Platform) { p.app = a }
}

// WithFrameInterval sets the Poll mode cadence.
func WithFrameInterval(d time.Duration) Option {
	return func(p *Platform) {
		if d > 0 {
			p.frameInterval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Platform) { p.log = l }
}

// WithGetenv replaces os.Getenv for display detection.
func WithGetenv(getenv func(string) string) Option {
	return func(p *Platform) { p.getenv = getenv }
}

// Platform implements loop.Platform on top of fyne.
type Platform struct {
	app           fyne.App
	frameInterval time.Duration
	log           *slog.Logger
	getenv        func(string) string

	// Main goroutine only.
	sink        loop.Sink
	window      fyne.Window
	started     bool
	dispatching bool
	pending     []func(loop.Sink)

	flow     atomic.Int32
	running  atomic.Bool
	quitOnce sync.Once

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
}

var _ loop.Platform = (*Platform)(nil)

// New returns a desktop platform.
func New(opts ...Option) *Platform {
	p := &Platform{frameInterval: DefaultFrameInterval, getenv: os.Getenv}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = logging.Discard()
	}
	return p
}

// Name implements loop.Platform.
func (p *Platform) Name() string { return "desktop" }

// Init implements loop.Platform.
func (p *Platform) Init() error {
	if p.app != nil {
		return nil
	}
	if err := checkDisplay(runtime.GOOS, p.getenv); err != nil {
		return err
	}
	p.app = app.NewWithID(AppID)
	return nil
}

// checkDisplay reports a missing display server on systems that need one.
func checkDisplay(goos string, getenv func(string) string) error {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "" {
			return errNoDisplay
		}
	}
	return nil
}

// Run implements loop.Platform.
func (p *Platform) Run(sink loop.Sink) error {
	if p.app == nil {
		return errors.New("desktop platform not initialized")
	}
	p.sink = sink
	mobile := p.app.Driver().Device().IsMobile()

	lc := p.app.Lifecycle()
	lc.SetOnStarted(func() {
		p.started = true
		p.dispatch(func(s loop.Sink) { s.Resumed() })
		p.boundary()
	})
	lc.SetOnEnteredForeground(func() {
		if mobile {
			if p.started {
				p.dispatch(func(s loop.Sink) { s.Resumed() })
			}
		} else {
			p.emit(event.Focused(true))
		}
		p.boundary()
	})
	lc.SetOnExitedForeground(func() {
		if mobile {
			p.dispatch(func(s loop.Sink) { s.Suspended() })
		} else {
			p.emit(event.Focused(false))
		}
		p.boundary()
	})
	lc.SetOnStopped(p.stopPolling)

	p.running.Store(true)
	p.applyFlow()
	p.log.Debug("fyne loop starting", "mobile", mobile)
	p.app.Run()
	p.running.Store(false)
	p.stopPolling()
	return nil
}

// Quit implements loop.Platform.
func (p *Platform) Quit() {
	p.quitOnce.Do(func() {
		p.stopPolling()
		if p.running.Load() {
			p.app.Quit()
		}
	})
}

// SetControlFlow implements loop.Platform.
func (p *Platform) SetControlFlow(flow control.Flow) {
	p.flow.Store(int32(flow))
	if p.running.Load() {
		p.applyFlow()
	}
}

// Wake implements loop.Platform.
func (p *Platform) Wake() {
	if !p.running.Load() {
		return
	}
	fyne.Do(func() {
		p.dispatch(func(s loop.Sink) { s.Wake() })
	})
}

// CreateWindow implements loop.Platform.
func (p *Platform) CreateWindow(attrs window.Attributes) (*window.Window, error) {
	if p.app == nil {
		return nil, errors.New("desktop platform not initialized")
	}
	if p.window != nil {
		return nil, errSingleWindow
	}
	const id window.ID = 1

	w := p.app.NewWindow(attrs.Title)
	surf := newSurface(p, id, w)
	w.SetContent(surf)
	w.Resize(fyne.NewSize(float32(attrs.InnerSize.Width), float32(attrs.InnerSize.Height)))
	w.SetCloseIntercept(func() {
		p.emit(event.CloseRequested{})
		p.boundary()
	})
	w.SetOnClosed(func() {
		p.emit(event.Destroyed{})
	})
	if dc, ok := w.Canvas().(fynedesktop.Canvas); ok {
		dc.SetOnKeyDown(func(ke *fyne.KeyEvent) {
			p.emit(keyboardInput(ke, event.Pressed))
			p.boundary()
		})
		dc.SetOnKeyUp(func(ke *fyne.KeyEvent) {
			p.emit(keyboardInput(ke, event.Released))
			p.boundary()
		})
	} else {
		p.log.Warn("canvas has no key up/down support, keyboard input disabled")
	}
	p.window = w
	w.Show()

	return window.New(id, attrs, surf), nil
}

// emit delivers ev for the platform's window.
func (p *Platform) emit(ev event.WindowEvent) {
	p.dispatch(func(s loop.Sink) { s.WindowEvent(1, ev) })
}

func (p *Platform) boundary() {
	p.dispatch(func(s loop.Sink) { s.AboutToWait() })
}

// dispatch calls fn with the sink, or queues it while another dispatch is
// in progress.
func (p *Platform) dispatch(fn func(loop.Sink)) {
	if p.sink == nil {
		return
	}
	if p.dispatching {
		p.pending = append(p.pending, fn)
		return
	}
	p.dispatching = true
	fn(p.sink)
	for len(p.pending) > 0 {
		next := p.pending[0]
		p.pending = p.pending[1:]
		next(p.sink)
	}
	p.dispatching = false
}

func (p *Platform) applyFlow() {
	if control.Flow(p.flow.Load()) == control.Poll {
		p.startPolling()
	} else {
		p.stopPolling()
	}
}

// startPolling emits an iteration boundary every frame interval until
// stopped.
func (p *Platform) startPolling() {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()
	if p.pollCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.pollCancel = cancel
	go func() {
		ticker := time.NewTicker(p.frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fyne.Do(p.boundary)
			}
		}
	}()
}

func (p *Platform) stopPolling() {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()
	if p.pollCancel != nil {
		p.pollCancel()
		p.pollCancel = nil
	}
}
