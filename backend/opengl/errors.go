package opengl

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/gogpu/g3d"
)

// Name is the backend name reported in errors and logs.
const Name = "opengl"

// tableTooLarge is GL_TABLE_TOO_LARGE from the imaging subset, which the
// 2.1 bindings do not export.
const tableTooLarge = 0x8031

// Errors for misuse the device should have prevented.
var (
	ErrNoVertexBuffer = errors.New("opengl: draw without a selected vertex buffer")
	ErrNoIndexBuffer  = errors.New("opengl: indexed draw without a selected index buffer")
	ErrForeignTexture = errors.New("opengl: texture was not created by this backend")
)

// errorKind classifies a glGetError code.
func errorKind(code uint32) g3d.ErrorKind {
	switch code {
	case gl.INVALID_ENUM, gl.INVALID_VALUE, gl.INVALID_OPERATION, tableTooLarge:
		return g3d.KindInvalidArgument
	case gl.STACK_OVERFLOW, gl.STACK_UNDERFLOW, gl.INVALID_FRAMEBUFFER_OPERATION:
		return g3d.KindLogic
	case gl.OUT_OF_MEMORY:
		return g3d.KindResourceExhausted
	}
	return g3d.KindUnknown
}

// translateError converts a glGetError code into a *g3d.BackendError. It
// returns nil for GL_NO_ERROR.
func translateError(op string, code uint32) error {
	if code == gl.NO_ERROR {
		return nil
	}
	return &g3d.BackendError{Backend: Name, Op: op, Code: code, Kind: errorKind(code)}
}

// checkError reports the first pending GL error and drains the rest so a
// stale flag is not blamed on a later call.
func checkError(op string) error {
	first := gl.GetError()
	if first == gl.NO_ERROR {
		return nil
	}
	for range 8 {
		if gl.GetError() == gl.NO_ERROR {
			break
		}
	}
	return translateError(op, first)
}

var framebufferReasons = map[uint32]string{
	gl.FRAMEBUFFER_UNSUPPORTED:                   "unsupported framebuffer",
	gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:         "incomplete framebuffer attachment",
	gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT: "missing framebuffer attachment",
	gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:        "incomplete draw buffer in framebuffer",
	gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:        "incomplete read buffer in framebuffer",
}

// framebufferError converts a glCheckFramebufferStatus result into an error
// wrapping g3d.ErrIncompleteTarget. It returns nil for a complete
// framebuffer.
func framebufferError(status uint32) error {
	if status == gl.FRAMEBUFFER_COMPLETE {
		return nil
	}
	reason, ok := framebufferReasons[status]
	if !ok {
		reason = fmt.Sprintf("unknown framebuffer status 0x%04X", status)
	}
	return fmt.Errorf("%w: %s", g3d.ErrIncompleteTarget, reason)
}
