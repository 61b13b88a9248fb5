// Package gpu is the gogpu-backed Platform: a single window presenting a
// WebGPU surface.
//
// gogpu needs the window configuration before its loop starts, so Run
// delivers the first Resumed before handing control to gogpu. The window
// requested there is realized when the native loop starts; events for it
// flow from gogpu callbacks afterwards.
//
// Closing the window is vetoed until the handler exits, once the first frame
// has installed the close callback. A close that arrives earlier is reported
// after gogpu has already begun shutting down.
package gpu

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"GPUWindow/control"
	"GPUWindow/event"
	"GPUWindow/logging"
	"GPUWindow/loop"
	"GPUWindow/window"
)

const windowID window.ID = 1

var (
	errNoDisplay    = errors.New("no display server: neither DISPLAY nor WAYLAND_DISPLAY is set")
	errSingleWindow = errors.New("gpu platform supports a single window")
)

// Option configures a Platform.
type Option func(*Platform)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Platform) { p.log = l }
}

// WithGetenv replaces os.Getenv for display detection.
func WithGetenv(getenv func(string) string) Option {
	return func(p *Platform) { p.getenv = getenv }
}

// Platform implements loop.Platform on top of gogpu.
type Platform struct {
	log    *slog.Logger
	getenv func(string) string

	mu        sync.Mutex
	app       *gogpu.App
	attrs     *window.Attributes
	handle    *window.Window
	animation *gogpu.AnimationToken
	width     int
	height    int
	scale     float64

	d        dispatcher
	flow     atomic.Int32
	quit     atomic.Bool
	running  atomic.Bool
	redraw   atomic.Bool
	hooked   atomic.Bool
	quitOnce sync.Once
}

var _ loop.Platform = (*Platform)(nil)

// New returns a gpu platform.
func New(opts ...Option) *Platform {
	p := &Platform{getenv: os.Getenv, scale: 1}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = logging.Discard()
	}
	return p
}

// Name implements loop.Platform.
func (p *Platform) Name() string { return "gpu" }

// Init implements loop.Platform.
func (p *Platform) Init() error {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if p.getenv("DISPLAY") == "" && p.getenv("WAYLAND_DISPLAY") == "" {
			return errNoDisplay
		}
	}
	return nil
}

// CreateWindow implements loop.Platform. The window is realized when Run
// starts the native loop.
func (p *Platform) CreateWindow(attrs window.Attributes) (*window.Window, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attrs != nil {
		return nil, errSingleWindow
	}
	a := attrs
	p.attrs = &a
	p.handle = window.New(windowID, attrs, (*surface)(p))
	return p.handle, nil
}

// Run implements loop.Platform.
func (p *Platform) Run(sink loop.Sink) error {
	p.d.sink = sink
	p.d.dispatch(func(s loop.Sink) { s.Resumed() })

	p.mu.Lock()
	attrs := p.attrs
	p.mu.Unlock()
	if p.quit.Load() {
		return nil
	}
	if attrs == nil {
		p.log.Warn("no window requested during activation, nothing to run")
		return nil
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(attrs.Title).
		WithSize(int(attrs.InnerSize.Width), int(attrs.InnerSize.Height)).
		WithContinuousRender(false))

	app.OnDraw(func(dc *gogpu.Context) {
		// The main thread waits on the draw call, so the close callback can be
		// installed from here.
		if !p.hooked.Load() {
			if w := app.PrimaryWindow(); w != nil {
				w.SetOnClose(p.closeRequested)
				p.hooked.Store(true)
			}
		}
		fw, fh := dc.FramebufferSize()
		p.frame(fw, fh, dc.ScaleFactor())
	})
	events := app.EventSource()
	events.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		p.emit(keyboardInput(key, event.Pressed))
		p.boundary()
	})
	events.OnKeyRelease(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		p.emit(keyboardInput(key, event.Released))
		p.boundary()
	})
	app.OnClose(p.closed)

	p.mu.Lock()
	p.app = app
	p.mu.Unlock()
	p.running.Store(true)
	p.applyFlow()
	defer p.running.Store(false)

	return app.Run()
}

// frame runs once per presented frame with the framebuffer size in pixels
// and the display scale factor.
func (p *Platform) frame(w, h int, scale float64) {
	if w <= 0 || h <= 0 {
		return
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	p.mu.Lock()
	resized := w != p.width || h != p.height
	rescaled := scale != p.scale
	p.width, p.height, p.scale = w, h, scale
	p.mu.Unlock()

	size := window.PhysicalSize{Width: uint32(w), Height: uint32(h)}
	if resized || rescaled {
		p.handle.SetInnerSize(size.ToLogical(scale))
	}
	if rescaled {
		p.emit(event.ScaleFactorChanged{ScaleFactor: scale})
	}
	if resized {
		p.emit(event.Resized{Size: size})
	}
	p.redraw.Store(false)
	p.emit(event.RedrawRequested{})
	p.d.dispatch(func(s loop.Sink) { s.Wake() })
	p.boundary()
}

// closeRequested reports a close attempt and lets gogpu close the window only
// once the handler has asked to exit.
func (p *Platform) closeRequested() bool {
	p.emit(event.CloseRequested{})
	p.boundary()
	return p.quit.Load()
}

// closed runs while gogpu shuts down.
func (p *Platform) closed() {
	if !p.hooked.Load() {
		p.emit(event.CloseRequested{})
	}
	p.emit(event.Destroyed{})
	p.stopAnimation()
}

// Quit implements loop.Platform.
func (p *Platform) Quit() {
	p.quitOnce.Do(func() {
		p.quit.Store(true)
		p.stopAnimation()
		p.mu.Lock()
		app := p.app
		p.mu.Unlock()
		if app != nil {
			app.Quit()
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

// Wake implements loop.Platform. gogpu has no cross-thread call, so a wake
// is a redraw request; user events are drained on the next frame.
func (p *Platform) Wake() {
	if p.running.Load() {
		(*surface)(p).RequestRedraw()
	}
}

func (p *Platform) applyFlow() {
	if control.Flow(p.flow.Load()) != control.Poll {
		p.stopAnimation()
		return
	}
	p.mu.Lock()
	app := p.app
	needed := app != nil && p.animation == nil && !p.quit.Load()
	p.mu.Unlock()
	if !needed {
		return
	}
	token := app.StartAnimation()
	p.mu.Lock()
	if p.animation == nil {
		p.animation = token
		token = nil
	}
	p.mu.Unlock()
	if token != nil {
		token.Stop()
	}
}

func (p *Platform) stopAnimation() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.animation != nil {
		p.animation.Stop()
		p.animation = nil
	}
}

func (p *Platform) emit(ev event.WindowEvent) {
	p.d.dispatch(func(s loop.Sink) { s.WindowEvent(windowID, ev) })
}

func (p *Platform) boundary() {
	p.d.dispatch(func(s loop.Sink) { s.AboutToWait() })
}

// surface is the window.Surface view of the platform.
type surface Platform

func (s *surface) RequestRedraw() {
	p := (*Platform)(s)
	if !p.redraw.CompareAndSwap(false, true) {
		return
	}
	p.mu.Lock()
	app := p.app
	p.mu.Unlock()
	if app != nil {
		app.RequestRedraw()
	}
}

func (s *surface) ScaleFactor() float64 {
	p := (*Platform)(s)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scale
}
