// Package window holds the one-shot window descriptor and the handle the
// application keeps once a platform has realized the window.
package window

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ID identifies a window within a single platform.
type ID uint64

// LogicalSize is a size in device-independent units.
type LogicalSize struct {
	Width  float64
	Height float64
}

// PhysicalSize is a size in device pixels.
type PhysicalSize struct {
	Width  uint32
	Height uint32
}

// ToPhysical converts s to pixels for the given scale factor, rounding to the
// nearest pixel. A non-positive scale is treated as 1.
func (s LogicalSize) ToPhysical(scale float64) PhysicalSize {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return PhysicalSize{
		Width:  uint32(math.Round(s.Width * scale)),
		Height: uint32(math.Round(s.Height * scale)),
	}
}

// ToLogical converts s to device-independent units.
func (s PhysicalSize) ToLogical(scale float64) LogicalSize {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return LogicalSize{Width: float64(s.Width) / scale, Height: float64(s.Height) / scale}
}

// Attributes describes a window to create. It is consumed by CreateWindow
// and not referenced afterwards.
type Attributes struct {
	Title     string
	InnerSize LogicalSize
}

// DefaultAttributes returns the attributes used when nothing is configured.
func DefaultAttributes() Attributes {
	return Attributes{Title: "wgpu window", InnerSize: LogicalSize{Width: 1280, Height: 720}}
}

// WithTitle returns a copy of a with the title replaced.
func (a Attributes) WithTitle(title string) Attributes {
	a.Title = title
	return a
}

// WithInnerSize returns a copy of a with the logical inner size replaced.
func (a Attributes) WithInnerSize(width, height float64) Attributes {
	a.InnerSize = LogicalSize{Width: width, Height: height}
	return a
}

// ErrInvalidSize is returned by Validate for sizes no platform can realize.
var ErrInvalidSize = errors.New("invalid window size")

// Validate rejects zero, negative and non-finite sizes.
func (a Attributes) Validate() error {
	w, h := a.InnerSize.Width, a.InnerSize.Height
	for _, v := range []float64{w, h} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %gx%g", ErrInvalidSize, w, h)
		}
	}
	return nil
}

// Surface is the platform side of a realized window.
type Surface interface {
	// RequestRedraw asks the platform to deliver a RedrawRequested event.
	RequestRedraw()
	// ScaleFactor returns the current ratio of pixels to logical units.
	ScaleFactor() float64
}

// Window is the handle returned by CreateWindow. The platform owns the
// native resource; the handle is only a way to address it.
type Window struct {
	id      ID
	title   string
	surface Surface

	mu   sync.Mutex
	size LogicalSize
}

// New is used by platforms to hand out a handle for a realized window.
func New(id ID, attrs Attributes, surface Surface) *Window {
	return &Window{id: id, title: attrs.Title, size: attrs.InnerSize, surface: surface}
}

// ID returns the window identifier carried by window events.
func (w *Window) ID() ID { return w.id }

// Title returns the title the window was created with.
func (w *Window) Title() string { return w.title }

// InnerSize returns the last known logical inner size.
func (w *Window) InnerSize() LogicalSize {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// SetInnerSize records a size reported by the platform.
func (w *Window) SetInnerSize(s LogicalSize) {
	w.mu.Lock()
	w.size = s
	w.mu.Unlock()
}

// ScaleFactor returns the platform scale factor, 1 when unknown.
func (w *Window) ScaleFactor() float64 {
	if w.surface == nil {
		return 1
	}
	return w.surface.ScaleFactor()
}

// RequestRedraw forwards to the platform. It is a no-op for handles
// without a surface.
func (w *Window) RequestRedraw() {
	if w.surface != nil {
		w.surface.RequestRedraw()
	}
}
