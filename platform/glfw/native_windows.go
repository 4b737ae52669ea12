//go:build windows

package glfw

import "unsafe"

// NativeHandles returns the window handle. The module instance is left to
// the surface, which looks up the current one.
func (w *Window) NativeHandles() (display, window uintptr) {
	return 0, uintptr(unsafe.Pointer(w.win.GetWin32Window()))
}
