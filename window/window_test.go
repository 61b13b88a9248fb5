package window

import (
	"errors"
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	if err := DefaultAttributes().Validate(); err != nil {
		t.Fatalf("default attributes rejected: %v", err)
	}
	bad := []LogicalSize{
		{0, 720},
		{1280, -1},
		{math.NaN(), 720},
		{1280, math.Inf(1)},
	}
	for _, s := range bad {
		err := Attributes{Title: "x", InnerSize: s}.Validate()
		if !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %v: expected ErrInvalidSize, got %v", s, err)
		}
	}
}

func TestBuilderCopies(t *testing.T) {
	base := DefaultAttributes()
	a := base.WithTitle("demo").WithInnerSize(640, 480)
	if base.Title != "wgpu window" || base.InnerSize.Width != 1280 {
		t.Fatalf("builder mutated the receiver: %+v", base)
	}
	if a.Title != "demo" || a.InnerSize != (LogicalSize{640, 480}) {
		t.Fatalf("unexpected attributes %+v", a)
	}
}

func TestSizeConversion(t *testing.T) {
	p := LogicalSize{Width: 1280, Height: 720}.ToPhysical(1.5)
	if p != (PhysicalSize{1920, 1080}) {
		t.Fatalf("unexpected physical size %+v", p)
	}
	if l := p.ToLogical(1.5); l != (LogicalSize{1280, 720}) {
		t.Fatalf("unexpected logical size %+v", l)
	}
	if p := (LogicalSize{10, 10}).ToPhysical(0); p != (PhysicalSize{10, 10}) {
		t.Fatalf("zero scale should act as 1, got %+v", p)
	}
}

type fakeSurface struct{ redraws int }

func (f *fakeSurface) RequestRedraw()       { f.redraws++ }
func (f *fakeSurface) ScaleFactor() float64 { return 2 }

func TestWindowHandle(t *testing.T) {
	s := &fakeSurface{}
	w := New(3, DefaultAttributes(), s)
	if w.ID() != 3 || w.Title() != "wgpu window" {
		t.Fatalf("unexpected handle %d %q", w.ID(), w.Title())
	}
	w.RequestRedraw()
	if s.redraws != 1 {
		t.Fatalf("redraw not forwarded")
	}
	if w.ScaleFactor() != 2 {
		t.Fatalf("scale not forwarded")
	}
	w.SetInnerSize(LogicalSize{100, 50})
	if w.InnerSize() != (LogicalSize{100, 50}) {
		t.Fatalf("size not recorded")
	}

	var bare Window
	bare.RequestRedraw()
	if bare.ScaleFactor() != 1 {
		t.Fatalf("bare handle should report scale 1")
	}
}
