//go:build (linux || freebsd || netbsd || openbsd) && wayland

package glfw

import (
	"unsafe"

	glfw3 "github.com/go-gl/glfw/v3.3/glfw"
)

// NativeHandles returns the Wayland display and surface.
func (w *Window) NativeHandles() (display, window uintptr) {
	return uintptr(unsafe.Pointer(glfw3.GetWaylandDisplay())), uintptr(unsafe.Pointer(w.win.GetWaylandWindow()))
}
