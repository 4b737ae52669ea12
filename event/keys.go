package event

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// KeyCode identifies a key. Keys with an ASCII code use it, letters in
// lower case; every other key has a code of 128 or above.
type KeyCode int

const (
	KeyUnknown   KeyCode = 0
	KeyTab       KeyCode = 9
	KeyEnter     KeyCode = 13
	KeyEscape    KeyCode = 27
	KeySpace     KeyCode = 32
	KeyBackspace KeyCode = 127
)

const (
	KeyLCtrl KeyCode = 128 + iota
	KeyLShift
	KeyLAlt
	KeyLSystem
	KeyRCtrl
	KeyRShift
	KeyRAlt
	KeyRSystem
	KeyMenu

	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown

	KeyPause

	KeyPadPlus
	KeyPadMinus
	KeyPadStar
	KeyPadSlash
	KeyPadDot
	KeyPad0
	KeyPad1
	KeyPad2
	KeyPad3
	KeyPad4
	KeyPad5
	KeyPad6
	KeyPad7
	KeyPad8
	KeyPad9

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
	KeyF13
	KeyF14
	KeyF15

	keyLast
)

// Char returns the code of a key with an ASCII character. Letters map to
// lower case.
func Char(c byte) KeyCode {
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return KeyCode(c)
}

var keyNames = map[KeyCode]string{
	KeyUnknown: "unknown", KeyTab: "tab", KeyEnter: "enter", KeyEscape: "escape",
	KeySpace: "space", KeyBackspace: "backspace",
	KeyLCtrl: "lctrl", KeyLShift: "lshift", KeyLAlt: "lalt", KeyLSystem: "lsystem",
	KeyRCtrl: "rctrl", KeyRShift: "rshift", KeyRAlt: "ralt", KeyRSystem: "rsystem",
	KeyMenu: "menu", KeyInsert: "insert", KeyDelete: "delete", KeyHome: "home",
	KeyEnd: "end", KeyPageUp: "pageup", KeyPageDown: "pagedown",
	KeyArrowLeft: "left", KeyArrowRight: "right", KeyArrowUp: "up", KeyArrowDown: "down", KeyPause: "pause",
	KeyPadPlus: "pad+", KeyPadMinus: "pad-", KeyPadStar: "pad*", KeyPadSlash: "pad/",
	KeyPadDot: "pad.",
}

func (k KeyCode) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	switch {
	case k > KeySpace && k < KeyBackspace:
		return string(rune(k))
	case k >= KeyPad0 && k <= KeyPad9:
		return fmt.Sprintf("pad%d", k-KeyPad0)
	case k >= KeyF1 && k <= KeyF15:
		return fmt.Sprintf("f%d", k-KeyF1+1)
	}
	return fmt.Sprintf("KeyCode(%d)", int(k))
}

// Valid reports whether k is a known key code.
func (k KeyCode) Valid() bool {
	return (k > KeyUnknown && k < 128) || (k >= KeyLCtrl && k < keyLast)
}

var fromGPUContext = map[gpucontext.Key]KeyCode{
	gpucontext.KeyEscape:         KeyEscape,
	gpucontext.KeyTab:            KeyTab,
	gpucontext.KeyBackspace:      KeyBackspace,
	gpucontext.KeyEnter:          KeyEnter,
	gpucontext.KeySpace:          KeySpace,
	gpucontext.KeyInsert:         KeyInsert,
	gpucontext.KeyDelete:         KeyDelete,
	gpucontext.KeyHome:           KeyHome,
	gpucontext.KeyEnd:            KeyEnd,
	gpucontext.KeyPageUp:         KeyPageUp,
	gpucontext.KeyPageDown:       KeyPageDown,
	gpucontext.KeyLeft:           KeyArrowLeft,
	gpucontext.KeyRight:          KeyArrowRight,
	gpucontext.KeyUp:             KeyArrowUp,
	gpucontext.KeyDown:           KeyArrowDown,
	gpucontext.KeyLeftShift:      KeyLShift,
	gpucontext.KeyRightShift:     KeyRShift,
	gpucontext.KeyLeftControl:    KeyLCtrl,
	gpucontext.KeyRightControl:   KeyRCtrl,
	gpucontext.KeyLeftAlt:        KeyLAlt,
	gpucontext.KeyRightAlt:       KeyRAlt,
	gpucontext.KeyLeftSuper:      KeyLSystem,
	gpucontext.KeyRightSuper:     KeyRSystem,
	gpucontext.KeyMinus:          Char('-'),
	gpucontext.KeyEqual:          Char('='),
	gpucontext.KeyLeftBracket:    Char('['),
	gpucontext.KeyRightBracket:   Char(']'),
	gpucontext.KeyBackslash:      Char('\\'),
	gpucontext.KeySemicolon:      Char(';'),
	gpucontext.KeyApostrophe:     Char('\''),
	gpucontext.KeyGrave:          Char('`'),
	gpucontext.KeyComma:          Char(','),
	gpucontext.KeyPeriod:         Char('.'),
	gpucontext.KeySlash:          Char('/'),
	gpucontext.KeyNumpadDecimal:  KeyPadDot,
	gpucontext.KeyNumpadDivide:   KeyPadSlash,
	gpucontext.KeyNumpadMultiply: KeyPadStar,
	gpucontext.KeyNumpadSubtract: KeyPadMinus,
	gpucontext.KeyNumpadAdd:      KeyPadPlus,
	gpucontext.KeyNumpadEnter:    KeyEnter,
	gpucontext.KeyPause:          KeyPause,
}

// FromGPUContext translates a platform-independent key. It reports false
// for keys without a code.
func FromGPUContext(k gpucontext.Key) (KeyCode, bool) {
	switch {
	case k >= gpucontext.KeyA && k <= gpucontext.KeyZ:
		return Char(byte('a' + k - gpucontext.KeyA)), true
	case k >= gpucontext.Key0 && k <= gpucontext.Key9:
		return Char(byte('0' + k - gpucontext.Key0)), true
	case k >= gpucontext.KeyF1 && k <= gpucontext.KeyF12:
		return KeyF1 + KeyCode(k-gpucontext.KeyF1), true
	case k >= gpucontext.KeyNumpad0 && k <= gpucontext.KeyNumpad9:
		return KeyPad0 + KeyCode(k-gpucontext.KeyNumpad0), true
	}
	code, ok := fromGPUContext[k]
	return code, ok
}
