package gpu

import (
	"github.com/gogpu/gpucontext"

	"GPUWindow/event"
)

var namedKeys = map[gpucontext.Key]event.KeyCode{
	gpucontext.KeyEscape:    event.KeyEscape,
	gpucontext.KeySpace:     event.KeySpace,
	gpucontext.KeyEnter:     event.KeyEnter,
	gpucontext.KeyTab:       event.KeyTab,
	gpucontext.KeyBackspace: event.KeyBackspace,
	gpucontext.KeyUp:        event.KeyArrowUp,
	gpucontext.KeyDown:      event.KeyArrowDown,
	gpucontext.KeyLeft:      event.KeyArrowLeft,
	gpucontext.KeyRight:     event.KeyArrowRight,
}

// physicalKey maps a gogpu key. Letters, digits and function keys are
// contiguous in both enumerations.
func physicalKey(key gpucontext.Key) event.PhysicalKey {
	code := event.KeyUnidentified
	switch {
	case key >= gpucontext.KeyA && key <= gpucontext.KeyZ:
		code = event.KeyA + event.KeyCode(key-gpucontext.KeyA)
	case key >= gpucontext.Key0 && key <= gpucontext.Key9:
		code = event.Digit0 + event.KeyCode(key-gpucontext.Key0)
	case key >= gpucontext.KeyF1 && key <= gpucontext.KeyF12:
		code = event.KeyF1 + event.KeyCode(key-gpucontext.KeyF1)
	default:
		if c, ok := namedKeys[key]; ok {
			code = c
		}
	}
	return event.PhysicalKey{Code: code, Native: uint32(key)}
}

func keyboardInput(key gpucontext.Key, state event.ElementState) event.WindowEvent {
	return event.KeyboardInput{PhysicalKey: physicalKey(key), State: state}
}
