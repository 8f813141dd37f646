// Package syntax implements the VP8 first partition syntax: frame headers
// and per-macroblock mode headers.
// This file contains error definitions for the syntax package.
package syntax

import "errors"

// Field errors.
var (
	// ErrValueOutOfRange indicates a value that cannot be represented in
	// its field's bit width.
	ErrValueOutOfRange = errors.New("syntax: value out of range for field width")

	// ErrInconsistentOptional indicates an optional field whose presence
	// contradicts the flag that implies it.
	ErrInconsistentOptional = errors.New("syntax: optional field presence contradicts its flag")
)

// Partition errors.
var (
	// ErrTruncated indicates the partition ended before the syntax did.
	ErrTruncated = errors.New("syntax: partition truncated")
)

// Macroblock errors.
var (
	// ErrMacroblockCount indicates a macroblock slice that does not match
	// the frame dimensions.
	ErrMacroblockCount = errors.New("syntax: macroblock count does not match frame size")

	// ErrSegmentID indicates a segment id outside 0-3.
	ErrSegmentID = errors.New("syntax: segment id out of range")

	// ErrInvalidMode indicates a prediction mode that is not valid where it
	// appears.
	ErrInvalidMode = errors.New("syntax: invalid prediction mode")

	// ErrMotionVector indicates a motion vector that contradicts its coded
	// mode or cannot be represented.
	ErrMotionVector = errors.New("syntax: motion vector cannot be coded")
)
