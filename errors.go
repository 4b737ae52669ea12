package g3d

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the device and by backends.
var (
	// ErrIncompleteTarget is returned when a texture target's attachments
	// are inconsistent at the moment they are applied.
	ErrIncompleteTarget = errors.New("g3d: incomplete render target")

	// ErrAlreadyLocked is returned by Lock on a buffer that is already mapped.
	ErrAlreadyLocked = errors.New("g3d: buffer already locked")

	// ErrNotLocked is returned by Unlock on a buffer that is not mapped.
	ErrNotLocked = errors.New("g3d: buffer not locked")

	// ErrBufferMapped is returned when a mapped buffer is selected for drawing.
	ErrBufferMapped = errors.New("g3d: buffer selected while mapped")

	// ErrUnsupported is returned when a backend cannot express a request,
	// for example a topology the underlying API does not have.
	ErrUnsupported = errors.New("g3d: not supported by backend")

	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("g3d: resource released")
)

// ErrorKind classifies native API failures.
type ErrorKind uint8

const (
	// KindUnknown is a native error code the backend does not recognize.
	KindUnknown ErrorKind = iota
	// KindInvalidArgument covers invalid enums, values and operations.
	KindInvalidArgument
	// KindLogic covers stack overflow/underflow and invalid framebuffer use.
	KindLogic
	// KindResourceExhausted covers out of memory conditions.
	KindResourceExhausted
)

var errorKindNames = [...]string{
	KindUnknown:           "unknown",
	KindInvalidArgument:   "invalid argument",
	KindLogic:             "logic",
	KindResourceExhausted: "resource exhausted",
}

// String returns the kind name.
func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "unknown"
}

// Kind sentinels. A *BackendError matches exactly one of them with errors.Is.
var (
	ErrInvalidArgument   = errors.New("g3d: invalid argument")
	ErrLogic             = errors.New("g3d: logic error")
	ErrResourceExhausted = errors.New("g3d: resource exhausted")
	ErrUnknownBackend    = errors.New("g3d: unknown backend error")
)

// BackendError is a translated native API error.
type BackendError struct {
	Backend string    // backend name, e.g. "opengl"
	Op      string    // operation that observed the error
	Code    uint32    // native error code
	Kind    ErrorKind // classification of Code
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("g3d: %s: %s: %s error (code 0x%04X)", e.Backend, e.Op, e.Kind, e.Code)
}

// Unwrap returns the sentinel for the error kind.
func (e *BackendError) Unwrap() error {
	switch e.Kind {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindLogic:
		return ErrLogic
	case KindResourceExhausted:
		return ErrResourceExhausted
	default:
		return ErrUnknownBackend
	}
}

// incompleteTarget wraps ErrIncompleteTarget with a reason.
func incompleteTarget(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIncompleteTarget, fmt.Sprintf(format, args...))
}
