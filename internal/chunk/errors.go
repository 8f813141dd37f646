package chunk

import "errors"

// Framing errors.
var (
	// ErrChunkTooSmall indicates a chunk shorter than its fixed header.
	ErrChunkTooSmall = errors.New("chunk: too small")

	// ErrStartCode indicates a key frame without the 9d 01 2a start code.
	ErrStartCode = errors.New("chunk: invalid key frame start code")

	// ErrDimensionMismatch indicates key frame dimensions that differ from
	// the stream's.
	ErrDimensionMismatch = errors.New("chunk: frame dimensions do not match stream")

	// ErrTruncatedPartition indicates a partition extending past the end of
	// the chunk.
	ErrTruncatedPartition = errors.New("chunk: partition truncated")

	// ErrPartitionCount indicates a DCT partition count other than 1, 2, 4
	// or 8.
	ErrPartitionCount = errors.New("chunk: invalid partition count")
)
