// Package glfw opens native windows with GLFW 3.3.
//
// A Window implements platform.Window and is its own
// gpucontext.EventSource, so event.Bind can feed the input queue from it.
// Windows opened for the opengl adapter carry a current GL context and
// present with SwapBuffers; windows for wgpu have no client API and hand
// their native handles to the wgpu surface.
//
// Importing the package locks the main goroutine to the main OS thread,
// as GLFW requires.
package glfw
