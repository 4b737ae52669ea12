// Package opengl renders g3d devices through fixed-function OpenGL 2.1.
//
// Vertex buffers are buffer objects feeding the client arrays, so the
// position, normal, color and texture coordinate elements of a vertex
// format map directly onto glVertexPointer and friends. Transforms are
// loaded into the modelview and projection matrix stacks. Texture targets
// are framebuffer objects.
//
// Importing the package registers the "opengl" adapter. A GL context must
// be current on the calling goroutine when the device is created and for
// every later call.
package opengl
