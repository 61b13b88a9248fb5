package event

import "fmt"

// KeyCode names a key by its position on a US layout keyboard, independent
// of the active layout.
type KeyCode int

const (
	KeyUnidentified KeyCode = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyTab
	KeyBackspace
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Digit0
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[KeyCode]string{
	KeyUnidentified: "Unidentified",
	KeyEscape:       "Escape",
	KeySpace:        "Space",
	KeyEnter:        "Enter",
	KeyTab:          "Tab",
	KeyBackspace:    "Backspace",
	KeyArrowUp:      "ArrowUp",
	KeyArrowDown:    "ArrowDown",
	KeyArrowLeft:    "ArrowLeft",
	KeyArrowRight:   "ArrowRight",
}

func (k KeyCode) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	switch {
	case k >= KeyA && k <= KeyZ:
		return "Key" + string(rune('A'+int(k-KeyA)))
	case k >= Digit0 && k <= Digit9:
		return "Digit" + string(rune('0'+int(k-Digit0)))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	return fmt.Sprintf("KeyCode(%d)", int(k))
}

// Letter returns the KeyCode for an ASCII letter, either case.
func Letter(r rune) (KeyCode, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + KeyCode(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyA + KeyCode(r-'A'), true
	}
	return KeyUnidentified, false
}

// Digit returns the KeyCode for an ASCII digit.
func Digit(r rune) (KeyCode, bool) {
	if r >= '0' && r <= '9' {
		return Digit0 + KeyCode(r-'0'), true
	}
	return KeyUnidentified, false
}

// PhysicalKey is a key identified by position. Code is KeyUnidentified when
// the platform reported a key without a mapping; Native then holds the raw
// platform code.
type PhysicalKey struct {
	Code   KeyCode
	Native uint32
}

// Code returns a PhysicalKey for a mapped key.
func Code(k KeyCode) PhysicalKey {
	return PhysicalKey{Code: k}
}

// Is reports whether p is the mapped key k.
func (p PhysicalKey) Is(k KeyCode) bool {
	return p.Code == k && k != KeyUnidentified
}

func (p PhysicalKey) String() string {
	if p.Code == KeyUnidentified {
		return fmt.Sprintf("Unidentified(%#x)", p.Native)
	}
	return p.Code.String()
}
