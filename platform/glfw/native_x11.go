//go:build (linux || freebsd || netbsd || openbsd) && !wayland

package glfw

import (
	"unsafe"

	glfw3 "github.com/go-gl/glfw/v3.3/glfw"
)

// NativeHandles returns the X11 display and window.
func (w *Window) NativeHandles() (display, window uintptr) {
	return uintptr(unsafe.Pointer(glfw3.GetX11Display())), uintptr(w.win.GetX11Window())
}
