// Package event contains the window-level events a platform delivers to the
// application.
//
// WindowEvent is a closed set: only types in this package implement it.
// Platforms map anything they cannot express to Unrecognized so handlers
// can ignore it without losing the notification entirely.
package event

import (
	"fmt"

	"GPUWindow/window"
)

// WindowEvent is the marker interface for window events.
type WindowEvent interface {
	isWindowEvent()
}

// CloseRequested is sent when the user asks to close the window.
type CloseRequested struct{}

// Destroyed is sent after the platform has released the window.
type Destroyed struct{}

// Resized carries the new inner size in pixels.
type Resized struct {
	Size window.PhysicalSize
}

// ScaleFactorChanged is sent when the window moves to a display with a
// different pixel density.
type ScaleFactorChanged struct {
	ScaleFactor float64
}

// Focused reports keyboard focus gain (true) or loss (false).
type Focused bool

// RedrawRequested is sent when the window contents must be presented again.
type RedrawRequested struct{}

// KeyboardInput is a key press or release.
type KeyboardInput struct {
	PhysicalKey PhysicalKey
	State       ElementState
	Repeat      bool
}

// Unrecognized wraps a platform notification without a typed counterpart.
type Unrecognized struct {
	Name string
}

func (CloseRequested) isWindowEvent()     {}
func (Destroyed) isWindowEvent()          {}
func (Resized) isWindowEvent()            {}
func (ScaleFactorChanged) isWindowEvent() {}
func (Focused) isWindowEvent()            {}
func (RedrawRequested) isWindowEvent()    {}
func (KeyboardInput) isWindowEvent()      {}
func (Unrecognized) isWindowEvent()       {}

// ElementState is the state of a key or button.
type ElementState int

const (
	Pressed ElementState = iota
	Released
)

func (s ElementState) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	}
	return fmt.Sprintf("ElementState(%d)", int(s))
}

// Name returns a short label for logging.
func Name(ev WindowEvent) string {
	switch e := ev.(type) {
	case CloseRequested:
		return "CloseRequested"
	case Destroyed:
		return "Destroyed"
	case Resized:
		return "Resized"
	case ScaleFactorChanged:
		return "ScaleFactorChanged"
	case Focused:
		return "Focused"
	case RedrawRequested:
		return "RedrawRequested"
	case KeyboardInput:
		return "KeyboardInput"
	case Unrecognized:
		return "Unrecognized(" + e.Name + ")"
	}
	return "unknown"
}
