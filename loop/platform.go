package loop

import (
	"GPUWindow/control"
	"GPUWindow/event"
	"GPUWindow/window"
)

// Platform is a native windowing backend. All methods except Wake are
// called from the goroutine that called Run, or before Run.
type Platform interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Init probes the native subsystem. A non-nil error means no window
	// can ever be shown.
	Init() error
	// CreateWindow realizes a window described by attrs.
	CreateWindow(attrs window.Attributes) (*window.Window, error)
	// Run pumps native events into sink until Quit is called or the
	// platform shuts down on its own.
	Run(sink Sink) error
	// Quit makes Run return once the current event has been handled.
	// The loop calls it at most once.
	Quit()
	// SetControlFlow applies the dispatch cadence no later than the next
	// AboutToWait.
	SetControlFlow(flow control.Flow)
	// Wake asks the platform to call Sink.Wake from its dispatch
	// goroutine. Wake is safe for concurrent use and may be called before
	// Run or after Quit, in which case it may do nothing.
	Wake()
}

// Sink receives typed events from a Platform. Every method must be called
// from the dispatch goroutine and never concurrently.
type Sink interface {
	// Resumed reports that the process may create windows and present.
	Resumed()
	// Suspended reports that the process lost its rendering capability.
	Suspended()
	// WindowEvent delivers an event for the window with the given id.
	WindowEvent(id window.ID, ev event.WindowEvent)
	// AboutToWait marks the end of an iteration: the platform has no
	// more events queued.
	AboutToWait()
	// Wake answers a Platform.Wake request.
	Wake()
}
