package loop

import (
	"GPUWindow/control"
	"GPUWindow/event"
	"GPUWindow/window"
)

// ActiveEventLoop is the capability handed to every handler callback. It is
// only valid for the duration of the callback.
type ActiveEventLoop interface {
	// CreateWindow realizes a window. It only succeeds from Resumed.
	CreateWindow(attrs window.Attributes) (*window.Window, error)
	// Exit ends the loop once the current event has been handled.
	// Further calls have no effect.
	Exit()
	// Exiting reports whether Exit was called or the platform is shutting
	// down.
	Exiting() bool
	// SetControlFlow changes the dispatch cadence from the next iteration.
	SetControlFlow(flow control.Flow)
	// ControlFlow returns the active dispatch cadence.
	ControlFlow() control.Flow
}

// ApplicationHandler reacts to the events dispatched by EventLoop.Run.
// T is the type of user events injected through a Proxy.
type ApplicationHandler[T any] interface {
	Resumed(el ActiveEventLoop)
	WindowEvent(el ActiveEventLoop, id window.ID, ev event.WindowEvent)
	UserEvent(el ActiveEventLoop, ev T)
}

// SuspendHandler is implemented by handlers that want Suspended calls.
type SuspendHandler interface {
	Suspended(el ActiveEventLoop)
}

// AboutToWaitHandler is implemented by handlers that want a callback at
// the end of each iteration.
type AboutToWaitHandler interface {
	AboutToWait(el ActiveEventLoop)
}

// ExitHandler is implemented by handlers that want a final callback before
// Run returns.
type ExitHandler interface {
	Exiting(el ActiveEventLoop)
}
