package glfw

import (
	"testing"

	glfw3 "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/g3d/event"
	"github.com/gogpu/gpucontext"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		in   glfw3.Key
		want gpucontext.Key
	}{
		{"letter", glfw3.KeyW, gpucontext.KeyW},
		{"first letter", glfw3.KeyA, gpucontext.KeyA},
		{"digit", glfw3.Key7, gpucontext.Key7},
		{"function", glfw3.KeyF12, gpucontext.KeyF12},
		{"keypad digit", glfw3.KeyKP3, gpucontext.KeyNumpad3},
		{"escape", glfw3.KeyEscape, gpucontext.KeyEscape},
		{"left shift", glfw3.KeyLeftShift, gpucontext.KeyLeftShift},
		{"grave", glfw3.KeyGraveAccent, gpucontext.KeyGrave},
		{"keypad enter", glfw3.KeyKPEnter, gpucontext.KeyNumpadEnter},
		{"no equivalent", glfw3.KeyF13, gpucontext.KeyUnknown},
		{"world", glfw3.KeyWorld1, gpucontext.KeyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateKey(tt.in))
		})
	}
}

func TestTranslatedKeysReachEventCodes(t *testing.T) {
	code, ok := event.FromGPUContext(translateKey(glfw3.KeyW))
	assert.True(t, ok)
	assert.Equal(t, event.Char('w'), code)

	code, ok = event.FromGPUContext(translateKey(glfw3.KeySpace))
	assert.True(t, ok)
	assert.Equal(t, event.KeySpace, code)
}

func TestTranslateMods(t *testing.T) {
	assert.Equal(t, gpucontext.Modifiers(0), translateMods(0))
	m := translateMods(glfw3.ModShift | glfw3.ModAlt)
	assert.True(t, m.HasShift())
	assert.True(t, m.HasAlt())
	assert.False(t, m.HasControl())
	assert.Equal(t, gpucontext.ModControl|gpucontext.ModSuper, translateMods(glfw3.ModControl|glfw3.ModSuper))
}

func TestTranslateButton(t *testing.T) {
	assert.Equal(t, gpucontext.MouseButtonLeft, translateButton(glfw3.MouseButtonLeft))
	assert.Equal(t, gpucontext.MouseButtonRight, translateButton(glfw3.MouseButtonRight))
	assert.Equal(t, gpucontext.MouseButtonMiddle, translateButton(glfw3.MouseButtonMiddle))
	assert.Equal(t, gpucontext.MouseButton5, translateButton(glfw3.MouseButton5))
}

func TestCursorInputMode(t *testing.T) {
	assert.Equal(t, glfw3.CursorNormal, cursorInputMode(gpucontext.CursorModeNormal))
	assert.Equal(t, glfw3.CursorDisabled, cursorInputMode(gpucontext.CursorModeLocked))
	assert.Equal(t, glfw3.CursorHidden, cursorInputMode(gpucontext.CursorModeConfined))
}
