// Package main wires the event loop to the application handler. The App
// holds the only application state: the handle of the main window.
//
// Notes:
//   - Every App method runs on the loop's dispatch goroutine, one at a time.
//     Nothing here needs a lock except the counters read by tests and by
//     the shutdown log.
//   - Window creation failure is fatal: the App records the error, asks the
//     loop to exit and main turns it into a non-zero exit code.
//   - A second activation (resume after suspend) keeps the existing window;
//     nothing is torn down on suspend.
package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"GPUWindow/event"
	"GPUWindow/logging"
	"GPUWindow/loop"
	"GPUWindow/window"
)

// CustomEvent is an application-defined event injected through a
// loop.Proxy.
type CustomEvent int

const (
	// CustomEventTimer is posted by the background ticker.
	CustomEventTimer CustomEvent = iota
)

func (e CustomEvent) String() string {
	switch e {
	case CustomEventTimer:
		return "timer"
	}
	return fmt.Sprintf("CustomEvent(%d)", int(e))
}

// Renderer is notified when the window contents must change. The shell
// never draws itself.
type Renderer interface {
	Resize(id window.ID, size window.PhysicalSize)
	Redraw(id window.ID)
}

// App is the application handler.
type App struct {
	attrs    window.Attributes
	log      *slog.Logger
	renderer Renderer

	window *window.Window
	err    error

	timerTicks atomic.Int64
	ignored    atomic.Int64
}

var (
	_ loop.ApplicationHandler[CustomEvent] = (*App)(nil)
	_ loop.SuspendHandler                  = (*App)(nil)
	_ loop.ExitHandler                     = (*App)(nil)
)

// NewApp returns a handler that creates its window from attrs.
func NewApp(attrs window.Attributes, log *slog.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}
	return &App{attrs: attrs, log: log}
}

// SetRenderer installs the collaborator notified of resizes and redraws.
// It must be called before the loop runs.
func (a *App) SetRenderer(r Renderer) {
	a.renderer = r
}

// Window returns the main window, nil before the first activation.
func (a *App) Window() *window.Window {
	return a.window
}

// Err returns the fatal error that stopped the loop, if any.
func (a *App) Err() error {
	return a.err
}

// TimerTicks returns how many timer events were received.
func (a *App) TimerTicks() int64 {
	return a.timerTicks.Load()
}

// Resumed creates the main window on first activation.
func (a *App) Resumed(el loop.ActiveEventLoop) {
	if a.window != nil {
		a.log.Debug("resumed with existing window", "id", a.window.ID())
		return
	}
	w, err := el.CreateWindow(a.attrs)
	if err != nil {
		a.log.Error("failed to create window", "error", err)
		a.err = err
		el.Exit()
		return
	}
	a.window = w
}

// WindowEvent handles events for the main window.
func (a *App) WindowEvent(el loop.ActiveEventLoop, id window.ID, ev event.WindowEvent) {
	if a.window == nil || id != a.window.ID() {
		a.ignore(ev)
		return
	}

	switch e := ev.(type) {
	case event.CloseRequested:
		a.log.Info("close requested, exiting")
		el.Exit()
	case event.KeyboardInput:
		if e.PhysicalKey.Is(event.KeyEscape) && e.State == event.Pressed {
			a.log.Info("escape pressed, exiting")
			el.Exit()
		}
	case event.Resized:
		a.window.SetInnerSize(e.Size.ToLogical(a.window.ScaleFactor()))
		if a.renderer != nil {
			a.renderer.Resize(id, e.Size)
		}
	case event.RedrawRequested:
		if a.renderer != nil {
			a.renderer.Redraw(id)
		}
	default:
		a.ignore(ev)
	}
}

// UserEvent acknowledges custom events.
func (a *App) UserEvent(_ loop.ActiveEventLoop, ev CustomEvent) {
	switch ev {
	case CustomEventTimer:
		n := a.timerTicks.Add(1)
		a.log.Debug("timer event", "count", n)
	default:
		a.log.Debug("ignoring custom event", "event", ev)
	}
}

// Suspended keeps every resource; the window is reused on resume.
func (a *App) Suspended(loop.ActiveEventLoop) {
	a.log.Info("suspended")
}

// Exiting logs the final state.
func (a *App) Exiting(loop.ActiveEventLoop) {
	a.log.Info("application exiting", "timer_events", a.TimerTicks(), "ignored_events", a.ignored.Load())
}

func (a *App) ignore(ev event.WindowEvent) {
	a.ignored.Add(1)
	a.log.Debug("ignoring window event", "event", event.Name(ev))
}
