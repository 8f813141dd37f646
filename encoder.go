// encoder.go
package vp8

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/chunk"
	"github.com/llehouerou/go-vp8/internal/syntax"
)

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger for frame events. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) {
		if l != nil {
			e.log = l
		}
	}
}

// WithResidualStage sets the stage that receives every accepted frame.
func WithResidualStage(s ResidualStage) Option {
	return func(e *Encoder) {
		e.residual = s
	}
}

// Encoder is one encoding session over a stream of frames of fixed size.
// Frames must be submitted in stream order.
type Encoder struct {
	width  uint16
	height uint16
	cols   int
	rows   int

	state State
	frame uint64 // frames accepted so far
	last  FrameInfo

	ds DecoderState

	log      *slog.Logger
	residual ResidualStage
}

// New returns a session that waits for a key frame.
func New(width, height uint16, opts ...Option) (*Encoder, error) {
	if width == 0 || height == 0 || width > MaxDimension || height > MaxDimension {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}
	e := &Encoder{
		width:  width,
		height: height,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	e.cols, e.rows = macroblockDims(width, height)
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEncoder returns a session whose state is initialized from keyFrame's
// header. The key frame is not counted as a processed frame; it is
// normally submitted again as the first frame.
func NewEncoder(width, height uint16, keyFrame []byte, opts ...Option) (*Encoder, error) {
	e, err := New(width, height, opts...)
	if err != nil {
		return nil, err
	}
	c, err := chunk.Parse(keyFrame, width, height)
	if err != nil {
		return nil, &FrameError{Kind: ErrFraming, Err: err}
	}
	if !c.KeyFrame {
		return nil, &FrameError{Kind: ErrFraming, Err: errors.Wrap(ErrNoKeyFrame, "bootstrap chunk")}
	}
	h, err := syntax.ParseKeyFrameHeader(bits.NewReader(c.FirstPartition))
	if err != nil {
		return nil, &FrameError{Kind: ErrHeaderParse, Err: err}
	}
	e.ds = newDecoderState(h, width, height)
	e.state = Ready
	return e, nil
}

// FrameInfo describes the last frame EncodeFrame accepted.
type FrameInfo struct {
	Index      uint64
	KeyFrame   bool
	ShowFrame  bool
	Partitions int // DCT partitions
}

// LastFrame returns the last accepted frame. It is the zero FrameInfo
// before the first one.
func (e *Encoder) LastFrame() FrameInfo { return e.last }

// Width returns the frame width in pixels.
func (e *Encoder) Width() uint16 { return e.width }

// Height returns the frame height in pixels.
func (e *Encoder) Height() uint16 { return e.height }

// State returns the session state.
func (e *Encoder) State() State { return e.state }

// FrameIndex returns the number of frames accepted so far, which is also
// the index the next frame gets.
func (e *Encoder) FrameIndex() uint64 { return e.frame }

// Snapshot returns a copy of the persistent codec state. The copy is
// independent of the session.
func (e *Encoder) Snapshot() DecoderState {
	return e.ds.Clone()
}

// Restore replaces the persistent codec state with a copy of s and marks
// the session ready. The state must cover the session's frame size.
func (e *Encoder) Restore(s DecoderState) error {
	if err := s.Segmentation.validate(); err != nil {
		return err
	}
	if s.Segmentation.Cols != e.cols || s.Segmentation.Rows != e.rows {
		return errors.Wrapf(ErrInvalidState, "state covers %dx%d macroblocks, session %dx%d",
			s.Segmentation.Cols, s.Segmentation.Rows, e.cols, e.rows)
	}
	e.ds = s.Clone()
	e.state = Ready
	return nil
}
