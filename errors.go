package vp8

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a frame was rejected.
type ErrorKind int

// Error kinds.
const (
	ErrFraming     ErrorKind = 1 // chunk framing or stream order
	ErrHeaderParse ErrorKind = 2 // frame or macroblock header
	ErrResidual    ErrorKind = 3 // downstream residual stage
)

var kindMessages = [4]string{
	"no error",
	"invalid frame framing",
	"invalid frame header",
	"residual stage failed",
}

// Error implements the error interface.
func (k ErrorKind) Error() string {
	if k >= 0 && int(k) < len(kindMessages) {
		return kindMessages[k]
	}
	return "unknown error"
}

var (
	// ErrNoKeyFrame indicates an inter frame before the first key frame.
	ErrNoKeyFrame = errors.New("vp8: inter frame before first key frame")

	// ErrInvalidDimensions indicates a frame size of zero or beyond
	// MaxDimension.
	ErrInvalidDimensions = errors.New("vp8: invalid frame dimensions")

	// ErrInvalidState indicates a checkpoint or restored state that does
	// not describe a valid session.
	ErrInvalidState = errors.New("vp8: invalid decoder state")
)

// FrameError is returned by EncodeFrame. It matches its Kind with
// errors.Is and unwraps to the underlying cause.
type FrameError struct {
	Index uint64 // zero-based position of the frame in the stream
	Kind  ErrorKind
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("vp8: frame %d: %v: %v", e.Index, e.Kind, e.Err)
}

// Is reports whether target is the error's kind.
func (e *FrameError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
