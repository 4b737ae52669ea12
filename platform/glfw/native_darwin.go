//go:build darwin

package glfw

// NativeHandles reports no handles: Metal surfaces need a CAMetalLayer,
// which GLFW does not create. wgpu devices render offscreen instead.
func (w *Window) NativeHandles() (display, window uintptr) {
	return 0, 0
}
