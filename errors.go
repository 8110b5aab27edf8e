package bottle

import (
	"errors"
	"fmt"
)

// Errors kernels return for common failures. Kernels wrap them with detail.
var (
	// ErrNoFace is returned when a probe point lies on no face.
	ErrNoFace = errors.New("no face at probe point")
	// ErrSketchOpen is returned when an unclosed sketch is extruded or cut.
	ErrSketchOpen = errors.New("sketch is not closed")
	// ErrSketchClosed is returned when a closed sketch is edited or closed again.
	ErrSketchClosed = errors.New("sketch already closed")
	// ErrEmptySketch is returned when closing a sketch with no profile.
	ErrEmptySketch = errors.New("sketch has no profile")
	// ErrEntity is returned when an entity handle is of the wrong kind or
	// belongs to another part.
	ErrEntity = errors.New("invalid entity")
	// ErrKernel is returned when the kernel rejects an operation.
	ErrKernel = errors.New("kernel operation failed")
)

// GeometryError is a kernel failure during Build. It unwraps to the
// kernel's error.
type GeometryError struct {
	Step Step
	// Op is the primitive operation that failed.
	Op  string
	Err error
}

func (e *GeometryError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("bottle %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("bottle %s: %s: %v", e.Step, e.Op, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }
