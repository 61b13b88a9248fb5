package desktop

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"GPUWindow/event"
	"GPUWindow/window"
)

// surface fills the window and turns fyne layout and refresh passes into
// Resized and RedrawRequested events.
type surface struct {
	widget.BaseWidget
	p   *Platform
	id  window.ID
	win fyne.Window
}

func newSurface(p *Platform, id window.ID, w fyne.Window) *surface {
	s := &surface{p: p, id: id, win: w}
	s.ExtendBaseWidget(s)
	return s
}

func (s *surface) CreateRenderer() fyne.WidgetRenderer {
	return &surfaceRenderer{s: s, bg: canvas.NewRectangle(color.Black)}
}

// RequestRedraw implements window.Surface.
func (s *surface) RequestRedraw() {
	fyne.Do(s.Refresh)
}

// ScaleFactor implements window.Surface.
func (s *surface) ScaleFactor() float64 {
	if s.win == nil {
		return 1
	}
	return float64(s.win.Canvas().Scale())
}

type surfaceRenderer struct {
	s     *surface
	bg    *canvas.Rectangle
	last  fyne.Size
	scale float64
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.layout(size, r.s.ScaleFactor())
}

// layout reports size and scale changes. A scale change alters the pixel
// size even when the logical size stays put.
func (r *surfaceRenderer) layout(size fyne.Size, scale float64) {
	rescaled := r.scale != 0 && scale != r.scale
	if size == r.last && !rescaled {
		return
	}
	r.last = size
	r.scale = scale
	if rescaled {
		r.s.p.emit(event.ScaleFactorChanged{ScaleFactor: scale})
	}
	r.s.p.emit(event.Resized{Size: window.PhysicalSize{
		Width:  uint32(math.Round(float64(size.Width) * scale)),
		Height: uint32(math.Round(float64(size.Height) * scale)),
	}})
}

func (r *surfaceRenderer) MinSize() fyne.Size { return fyne.NewSize(1, 1) }

func (r *surfaceRenderer) Refresh() {
	r.bg.Refresh()
	r.s.p.emit(event.RedrawRequested{})
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.bg} }

func (r *surfaceRenderer) Destroy() {}
