package desktop

import (
	"fyne.io/fyne/v2"

	"GPUWindow/event"
)

var namedKeys = map[fyne.KeyName]event.KeyCode{
	fyne.KeyEscape:    event.KeyEscape,
	fyne.KeySpace:     event.KeySpace,
	fyne.KeyReturn:    event.KeyEnter,
	fyne.KeyEnter:     event.KeyEnter,
	fyne.KeyTab:       event.KeyTab,
	fyne.KeyBackspace: event.KeyBackspace,
	fyne.KeyUp:        event.KeyArrowUp,
	fyne.KeyDown:      event.KeyArrowDown,
	fyne.KeyLeft:      event.KeyArrowLeft,
	fyne.KeyRight:     event.KeyArrowRight,
	fyne.KeyF1:        event.KeyF1,
	fyne.KeyF2:        event.KeyF2,
	fyne.KeyF3:        event.KeyF3,
	fyne.KeyF4:        event.KeyF4,
	fyne.KeyF5:        event.KeyF5,
	fyne.KeyF6:        event.KeyF6,
	fyne.KeyF7:        event.KeyF7,
	fyne.KeyF8:        event.KeyF8,
	fyne.KeyF9:        event.KeyF9,
	fyne.KeyF10:       event.KeyF10,
	fyne.KeyF11:       event.KeyF11,
	fyne.KeyF12:       event.KeyF12,
}

// physicalKey maps a fyne key name. Letters and digits use their single
// character names.
func physicalKey(ke *fyne.KeyEvent) event.PhysicalKey {
	native := uint32(ke.Physical.ScanCode)
	if code, ok := namedKeys[ke.Name]; ok {
		return event.PhysicalKey{Code: code, Native: native}
	}
	if name := []rune(string(ke.Name)); len(name) == 1 {
		if code, ok := event.Letter(name[0]); ok {
			return event.PhysicalKey{Code: code, Native: native}
		}
		if code, ok := event.Digit(name[0]); ok {
			return event.PhysicalKey{Code: code, Native: native}
		}
	}
	return event.PhysicalKey{Code: event.KeyUnidentified, Native: native}
}

func keyboardInput(ke *fyne.KeyEvent, state event.ElementState) event.WindowEvent {
	if ke == nil {
		return event.Unrecognized{Name: "empty key event"}
	}
	return event.KeyboardInput{PhysicalKey: physicalKey(ke), State: state}
}
