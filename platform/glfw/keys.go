package glfw

import (
	glfw3 "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
)

var keys = map[glfw3.Key]gpucontext.Key{
	glfw3.KeyEscape:       gpucontext.KeyEscape,
	glfw3.KeyTab:          gpucontext.KeyTab,
	glfw3.KeyBackspace:    gpucontext.KeyBackspace,
	glfw3.KeyEnter:        gpucontext.KeyEnter,
	glfw3.KeySpace:        gpucontext.KeySpace,
	glfw3.KeyInsert:       gpucontext.KeyInsert,
	glfw3.KeyDelete:       gpucontext.KeyDelete,
	glfw3.KeyHome:         gpucontext.KeyHome,
	glfw3.KeyEnd:          gpucontext.KeyEnd,
	glfw3.KeyPageUp:       gpucontext.KeyPageUp,
	glfw3.KeyPageDown:     gpucontext.KeyPageDown,
	glfw3.KeyLeft:         gpucontext.KeyLeft,
	glfw3.KeyRight:        gpucontext.KeyRight,
	glfw3.KeyUp:           gpucontext.KeyUp,
	glfw3.KeyDown:         gpucontext.KeyDown,
	glfw3.KeyLeftShift:    gpucontext.KeyLeftShift,
	glfw3.KeyRightShift:   gpucontext.KeyRightShift,
	glfw3.KeyLeftControl:  gpucontext.KeyLeftControl,
	glfw3.KeyRightControl: gpucontext.KeyRightControl,
	glfw3.KeyLeftAlt:      gpucontext.KeyLeftAlt,
	glfw3.KeyRightAlt:     gpucontext.KeyRightAlt,
	glfw3.KeyLeftSuper:    gpucontext.KeyLeftSuper,
	glfw3.KeyRightSuper:   gpucontext.KeyRightSuper,
	glfw3.KeyMinus:        gpucontext.KeyMinus,
	glfw3.KeyEqual:        gpucontext.KeyEqual,
	glfw3.KeyLeftBracket:  gpucontext.KeyLeftBracket,
	glfw3.KeyRightBracket: gpucontext.KeyRightBracket,
	glfw3.KeyBackslash:    gpucontext.KeyBackslash,
	glfw3.KeySemicolon:    gpucontext.KeySemicolon,
	glfw3.KeyApostrophe:   gpucontext.KeyApostrophe,
	glfw3.KeyGraveAccent:  gpucontext.KeyGrave,
	glfw3.KeyComma:        gpucontext.KeyComma,
	glfw3.KeyPeriod:       gpucontext.KeyPeriod,
	glfw3.KeySlash:        gpucontext.KeySlash,
	glfw3.KeyKPDecimal:    gpucontext.KeyNumpadDecimal,
	glfw3.KeyKPDivide:     gpucontext.KeyNumpadDivide,
	glfw3.KeyKPMultiply:   gpucontext.KeyNumpadMultiply,
	glfw3.KeyKPSubtract:   gpucontext.KeyNumpadSubtract,
	glfw3.KeyKPAdd:        gpucontext.KeyNumpadAdd,
	glfw3.KeyKPEnter:      gpucontext.KeyNumpadEnter,
	glfw3.KeyCapsLock:     gpucontext.KeyCapsLock,
	glfw3.KeyScrollLock:   gpucontext.KeyScrollLock,
	glfw3.KeyNumLock:      gpucontext.KeyNumLock,
	glfw3.KeyPrintScreen:  gpucontext.KeyPrintScreen,
	glfw3.KeyPause:        gpucontext.KeyPause,
}

// translateKey maps a GLFW key onto the platform-independent key set.
// Keys without an equivalent become KeyUnknown.
func translateKey(k glfw3.Key) gpucontext.Key {
	switch {
	case k >= glfw3.KeyA && k <= glfw3.KeyZ:
		return gpucontext.KeyA + gpucontext.Key(k-glfw3.KeyA)
	case k >= glfw3.Key0 && k <= glfw3.Key9:
		return gpucontext.Key0 + gpucontext.Key(k-glfw3.Key0)
	case k >= glfw3.KeyF1 && k <= glfw3.KeyF12:
		return gpucontext.KeyF1 + gpucontext.Key(k-glfw3.KeyF1)
	case k >= glfw3.KeyKP0 && k <= glfw3.KeyKP9:
		return gpucontext.KeyNumpad0 + gpucontext.Key(k-glfw3.KeyKP0)
	}
	return keys[k]
}

func translateMods(m glfw3.ModifierKey) gpucontext.Modifiers {
	var mods gpucontext.Modifiers
	if m&glfw3.ModShift != 0 {
		mods |= gpucontext.ModShift
	}
	if m&glfw3.ModControl != 0 {
		mods |= gpucontext.ModControl
	}
	if m&glfw3.ModAlt != 0 {
		mods |= gpucontext.ModAlt
	}
	if m&glfw3.ModSuper != 0 {
		mods |= gpucontext.ModSuper
	}
	if m&glfw3.ModCapsLock != 0 {
		mods |= gpucontext.ModCapsLock
	}
	if m&glfw3.ModNumLock != 0 {
		mods |= gpucontext.ModNumLock
	}
	return mods
}

func translateButton(b glfw3.MouseButton) gpucontext.MouseButton {
	switch b {
	case glfw3.MouseButtonRight:
		return gpucontext.MouseButtonRight
	case glfw3.MouseButtonMiddle:
		return gpucontext.MouseButtonMiddle
	case glfw3.MouseButton4:
		return gpucontext.MouseButton4
	case glfw3.MouseButton5:
		return gpucontext.MouseButton5
	}
	return gpucontext.MouseButtonLeft
}

// cursorInputMode returns the GLFW cursor mode for m. A locked cursor is
// disabled so motion keeps producing deltas at the window edge.
func cursorInputMode(m gpucontext.CursorMode) int {
	switch m {
	case gpucontext.CursorModeLocked:
		return glfw3.CursorDisabled
	case gpucontext.CursorModeConfined:
		return glfw3.CursorHidden
	}
	return glfw3.CursorNormal
}
