package gpu

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/gogpu/gpucontext"

	"GPUWindow/event"
	"GPUWindow/loop"
	"GPUWindow/window"
)

type countingSink struct {
	mu      sync.Mutex
	depth   int
	reentry bool
	calls   int
	events  []event.WindowEvent
	resumed func()
	onEvent func()
}

func (s *countingSink) enter() {
	s.mu.Lock()
	s.depth++
	if s.depth > 1 {
		s.reentry = true
	}
	s.calls++
	s.mu.Unlock()
}

func (s *countingSink) leave() {
	s.mu.Lock()
	s.depth--
	s.mu.Unlock()
}

func (s *countingSink) Resumed() {
	s.enter()
	defer s.leave()
	if s.resumed != nil {
		s.resumed()
	}
}
func (s *countingSink) Suspended() { s.enter(); s.leave() }
func (s *countingSink) WindowEvent(_ window.ID, ev event.WindowEvent) {
	s.enter()
	defer s.leave()
	s.events = append(s.events, ev)
	if s.onEvent != nil {
		s.onEvent()
	}
}
func (s *countingSink) AboutToWait() { s.enter(); s.leave() }
func (s *countingSink) Wake()        { s.enter(); s.leave() }

func TestInitRequiresDisplay(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("display variables only matter on linux")
	}
	p := New(WithGetenv(func(string) string { return "" }))
	if err := p.Init(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	p = New(WithGetenv(func(k string) string {
		if k == "DISPLAY" {
			return ":0"
		}
		return ""
	}))
	if err := p.Init(); err != nil {
		t.Fatalf("init with display: %v", err)
	}
}

func TestCreateWindowOnce(t *testing.T) {
	p := New()
	w, err := p.CreateWindow(window.DefaultAttributes())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.ID() != windowID || w.ScaleFactor() != 1 {
		t.Fatalf("unexpected handle %d scale %v", w.ID(), w.ScaleFactor())
	}
	w.RequestRedraw() // no app yet: must not panic
	if _, err := p.CreateWindow(window.DefaultAttributes()); !errors.Is(err, errSingleWindow) {
		t.Fatalf("expected errSingleWindow, got %v", err)
	}
}

func TestRunWithoutWindowReturns(t *testing.T) {
	p := New()
	s := &countingSink{}
	if err := p.Run(s); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.calls != 1 {
		t.Fatalf("expected only the activation, got %d calls", s.calls)
	}
}

func TestRunAfterQuitDuringActivation(t *testing.T) {
	p := New()
	s := &countingSink{}
	s.resumed = func() {
		if _, err := p.CreateWindow(window.DefaultAttributes()); err != nil {
			t.Errorf("create: %v", err)
		}
		p.Quit()
	}
	if err := p.Run(s); err != nil {
		t.Fatalf("run: %v", err)
	}
	if p.app != nil {
		t.Fatalf("no gogpu app must start after quit")
	}
}

func TestFrameTracksFramebuffer(t *testing.T) {
	p := New()
	s := &countingSink{}
	p.d.sink = s
	attrs := window.DefaultAttributes()
	if _, err := p.CreateWindow(attrs); err != nil {
		t.Fatalf("create: %v", err)
	}
	p.frame(1280, 720, 1)
	p.frame(1280, 720, 1)
	p.frame(1920, 1080, 1)
	p.frame(0, 0, 1)

	var sizes []window.PhysicalSize
	var redraws int
	for _, ev := range s.events {
		switch e := ev.(type) {
		case event.Resized:
			sizes = append(sizes, e.Size)
		case event.RedrawRequested:
			redraws++
		case event.ScaleFactorChanged:
			t.Fatalf("scale did not change: %+v", e)
		}
	}
	want := []window.PhysicalSize{{Width: 1280, Height: 720}, {Width: 1920, Height: 1080}}
	if len(sizes) != len(want) || sizes[0] != want[0] || sizes[1] != want[1] {
		t.Fatalf("resized %+v, want %+v", sizes, want)
	}
	if redraws != 3 {
		t.Fatalf("expected 3 redraws, got %d", redraws)
	}
	if p.handle.ScaleFactor() != 1 {
		t.Fatalf("expected scale 1, got %v", p.handle.ScaleFactor())
	}
	if got := p.handle.InnerSize(); got != (window.LogicalSize{Width: 1920, Height: 1080}) {
		t.Fatalf("unexpected logical size %+v", got)
	}
}

func TestFrameOnHiDPIDisplay(t *testing.T) {
	p := New()
	s := &countingSink{}
	p.d.sink = s
	if _, err := p.CreateWindow(window.DefaultAttributes()); err != nil {
		t.Fatalf("create: %v", err)
	}
	p.frame(2560, 1440, 2)

	if len(s.events) < 2 {
		t.Fatalf("unexpected events %v", s.events)
	}
	if e, ok := s.events[0].(event.ScaleFactorChanged); !ok || e.ScaleFactor != 2 {
		t.Fatalf("expected ScaleFactorChanged(2) first, got %v", s.events[0])
	}
	if e, ok := s.events[1].(event.Resized); !ok || e.Size != (window.PhysicalSize{Width: 2560, Height: 1440}) {
		t.Fatalf("expected physical resize, got %v", s.events[1])
	}
	if p.handle.ScaleFactor() != 2 {
		t.Fatalf("expected scale 2, got %v", p.handle.ScaleFactor())
	}
	if got := p.handle.InnerSize(); got != (window.LogicalSize{Width: 1280, Height: 720}) {
		t.Fatalf("unexpected logical size %+v", got)
	}

	s.events = nil
	p.frame(2560, 1440, 2)
	for _, ev := range s.events {
		switch ev.(type) {
		case event.Resized, event.ScaleFactorChanged:
			t.Fatalf("unchanged frame emitted %v", ev)
		}
	}
}

func TestCloseIsVetoedUntilExit(t *testing.T) {
	p := New()
	s := &countingSink{}
	p.d.sink = s
	if p.closeRequested() {
		t.Fatalf("close must wait for the handler")
	}
	if _, ok := s.events[0].(event.CloseRequested); !ok {
		t.Fatalf("expected CloseRequested, got %v", s.events)
	}

	s.onEvent = func() {
		if _, ok := s.events[len(s.events)-1].(event.CloseRequested); ok {
			p.Quit()
		}
	}
	if !p.closeRequested() {
		t.Fatalf("close must proceed once quit was requested")
	}
}

func TestClosedReportsDestroyed(t *testing.T) {
	p := New()
	s := &countingSink{}
	p.d.sink = s
	p.closed()
	if len(s.events) != 2 {
		t.Fatalf("unexpected events %v", s.events)
	}
	if _, ok := s.events[0].(event.CloseRequested); !ok {
		t.Fatalf("expected CloseRequested before the hook is installed, got %v", s.events[0])
	}

	s.events = nil
	p.hooked.Store(true)
	p.closed()
	if len(s.events) != 1 {
		t.Fatalf("unexpected events %v", s.events)
	}
	if _, ok := s.events[0].(event.Destroyed); !ok {
		t.Fatalf("expected Destroyed, got %v", s.events[0])
	}
}

func TestDispatcherSerializes(t *testing.T) {
	s := &countingSink{}
	var d dispatcher
	d.sink = s
	s.onEvent = func() {
		if len(s.events) == 1 {
			d.dispatch(func(sink loop.Sink) { sink.AboutToWait() })
		}
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.dispatch(func(sink loop.Sink) { sink.WindowEvent(windowID, event.RedrawRequested{}) })
		}()
	}
	wg.Wait()
	if s.reentry {
		t.Fatalf("sink was entered concurrently or recursively")
	}
	if s.calls != 9 {
		t.Fatalf("expected 9 calls, got %d", s.calls)
	}
}

func TestPhysicalKey(t *testing.T) {
	tests := []struct {
		key  gpucontext.Key
		want event.KeyCode
	}{
		{gpucontext.KeyEscape, event.KeyEscape},
		{gpucontext.KeySpace, event.KeySpace},
		{gpucontext.KeyEnter, event.KeyEnter},
		{gpucontext.KeyTab, event.KeyTab},
		{gpucontext.KeyBackspace, event.KeyBackspace},
		{gpucontext.KeyUp, event.KeyArrowUp},
		{gpucontext.KeyDown, event.KeyArrowDown},
		{gpucontext.KeyLeft, event.KeyArrowLeft},
		{gpucontext.KeyRight, event.KeyArrowRight},
		{gpucontext.KeyA, event.KeyA},
		{gpucontext.KeyM, event.KeyM},
		{gpucontext.KeyZ, event.KeyZ},
		{gpucontext.Key0, event.Digit0},
		{gpucontext.Key9, event.Digit9},
		{gpucontext.KeyF1, event.KeyF1},
		{gpucontext.KeyF12, event.KeyF12},
		{gpucontext.KeyNumpad5, event.KeyUnidentified},
		{gpucontext.KeyUnknown, event.KeyUnidentified},
	}
	for _, tt := range tests {
		got := physicalKey(tt.key)
		if got.Code != tt.want {
			t.Errorf("physicalKey(%d) = %v, want %v", tt.key, got.Code, tt.want)
		}
		if got.Native != uint32(tt.key) {
			t.Errorf("physicalKey(%d) native = %d", tt.key, got.Native)
		}
	}

	ki := keyboardInput(gpucontext.KeySpace, event.Released).(event.KeyboardInput)
	if ki.State != event.Released || !ki.PhysicalKey.Is(event.KeySpace) {
		t.Fatalf("unexpected input %+v", ki)
	}
}
