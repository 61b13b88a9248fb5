package loop

import (
	"errors"
	"fmt"
)

var (
	// ErrPlatformInit matches every *PlatformInitError.
	ErrPlatformInit = errors.New("platform initialization failed")
	// ErrWindowCreation matches every *WindowCreationError.
	ErrWindowCreation = errors.New("window creation failed")
	// ErrNotActivated is wrapped by CreateWindow outside of Resumed.
	ErrNotActivated = errors.New("windows can only be created while the loop is activated")
	// ErrUserEventsDisabled is returned by Proxy when the loop was built
	// without a user event queue.
	ErrUserEventsDisabled = errors.New("event loop built without user events")
	// ErrLoopReused is returned by a second call to Run.
	ErrLoopReused = errors.New("event loop already ran")
)

// PlatformInitError reports a windowing subsystem that could not start.
type PlatformInitError struct {
	Platform string
	Err      error
}

func (e *PlatformInitError) Error() string {
	return fmt.Sprintf("platform %s: %v: %v", e.Platform, ErrPlatformInit, e.Err)
}

func (e *PlatformInitError) Unwrap() error { return e.Err }

func (e *PlatformInitError) Is(target error) bool { return target == ErrPlatformInit }

// WindowCreationError reports a window the platform refused to realize.
type WindowCreationError struct {
	Title string
	Err   error
}

func (e *WindowCreationError) Error() string {
	return fmt.Sprintf("%v (%q): %v", ErrWindowCreation, e.Title, e.Err)
}

func (e *WindowCreationError) Unwrap() error { return e.Err }

func (e *WindowCreationError) Is(target error) bool { return target == ErrWindowCreation }
