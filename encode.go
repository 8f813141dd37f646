// encode.go
package vp8

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/chunk"
	"github.com/llehouerou/go-vp8/internal/syntax"
)

// EncodeFrame processes one frame chunk and returns its re-encoded first
// partition: the frame header followed by the macroblock headers.
//
// Key frames reset the persistent state before they are applied. Inter
// frames update it in place and return an empty, non-nil slice.
//
// A frame is applied entirely or not at all: when EncodeFrame returns a
// framing or header error the session state is unchanged. A residual stage
// error is reported after the frame was committed.
//
// Source: RFC 6386 sections 9 and 19
func (e *Encoder) EncodeFrame(data []byte) ([]byte, error) {
	index := e.frame
	c, err := chunk.Parse(data, e.width, e.height)
	if err != nil {
		return nil, e.reject(index, err)
	}

	var (
		out []byte
		ctx *FrameContext
	)
	if c.KeyFrame {
		out, ctx, err = e.keyFrame(c)
	} else {
		if e.state != Ready {
			return nil, e.reject(index, ErrNoKeyFrame)
		}
		out, ctx, err = e.interFrame(c)
	}
	if err != nil {
		return nil, e.reject(index, err)
	}

	e.state = Ready
	e.frame++
	ctx.Index = index
	ctx.ShowFrame = c.ShowFrame
	e.last = FrameInfo{
		Index:      index,
		KeyFrame:   c.KeyFrame,
		ShowFrame:  c.ShowFrame,
		Partitions: len(ctx.Partitions),
	}

	if e.residual != nil {
		if err := e.residual.ProcessFrame(ctx); err != nil {
			return nil, &FrameError{Index: index, Kind: ErrResidual, Err: err}
		}
	}
	return out, nil
}

// keyFrame resets the state from a key frame and returns its serialized
// first partition. Nothing is committed unless every step succeeds.
func (e *Encoder) keyFrame(c *chunk.Chunk) ([]byte, *FrameContext, error) {
	r := bits.NewReader(c.FirstPartition)
	h, err := syntax.ParseKeyFrameHeader(r)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "key frame header")
	}

	fresh := newDecoderState(h, e.width, e.height)
	working := fresh.Probabilities
	working.coeffProbUpdate(&h.TokenProbUpdate)
	if h.RefreshEntropyProbs {
		fresh.Probabilities = working
	}

	modes := syntax.KeyFrameModes(h, e.cols, e.rows)
	mbs, err := syntax.ParseMacroblocks(r, modes)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "key frame macroblock headers")
	}
	parts, err := c.Partitions(1 << h.Log2NumPartitions)
	if err != nil {
		return nil, nil, err
	}

	w := bits.NewWriter()
	if err := h.Encode(w); err != nil {
		return nil, nil, pkgerrors.Wrap(err, "serializing key frame header")
	}
	if err := syntax.EncodeMacroblocks(w, modes, mbs); err != nil {
		return nil, nil, pkgerrors.Wrap(err, "serializing macroblock headers")
	}
	out := w.Finish()

	fresh.Segmentation.apply(mbs, modes.UpdateSegmentMap)
	e.ds = fresh
	e.log.Debug("key frame",
		"frame", e.frame,
		"refresh", bool(h.RefreshEntropyProbs),
		"partitions", len(parts),
		"bytes", len(out))

	ctx := e.frameContext(working, mbs, parts)
	ctx.KeyFrame = true
	ctx.Quantizer = quantizerIndices(h.QuantIndices)
	ctx.LoopFilter = LoopFilter{
		Simple:    bool(h.FilterType),
		Level:     uint8(h.LoopFilterLevel),
		Sharpness: uint8(h.SharpnessLevel),
	}
	return out, ctx, nil
}

// interFrame applies an inter frame to the persistent state.
func (e *Encoder) interFrame(c *chunk.Chunk) ([]byte, *FrameContext, error) {
	r := bits.NewReader(c.FirstPartition)
	h, err := syntax.ParseInterFrameHeader(r)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "inter frame header")
	}

	working := e.ds.Probabilities
	working.update(h)

	modes := syntax.InterFrameModes(h, e.cols, e.rows, working.YMode, working.UVMode, working.MotionVector)
	mbs, err := syntax.ParseMacroblocks(r, modes)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "inter frame macroblock headers")
	}
	parts, err := c.Partitions(1 << h.Log2NumPartitions)
	if err != nil {
		return nil, nil, err
	}

	e.ds.Adjustments.update(h)
	if h.RefreshEntropyProbs {
		e.ds.Probabilities = working
	}
	e.ds.Segmentation.apply(mbs, modes.UpdateSegmentMap)
	e.log.Debug("inter frame",
		"frame", e.frame,
		"refresh", bool(h.RefreshEntropyProbs),
		"partitions", len(parts))

	ctx := e.frameContext(working, mbs, parts)
	ctx.Quantizer = quantizerIndices(h.QuantIndices)
	ctx.LoopFilter = LoopFilter{
		Simple:    bool(h.FilterType),
		Level:     uint8(h.LoopFilterLevel),
		Sharpness: uint8(h.SharpnessLevel),
	}
	return []byte{}, ctx, nil
}

func (e *Encoder) frameContext(working ProbabilityTables, mbs []syntax.MacroblockHeader, parts [][]byte) *FrameContext {
	return &FrameContext{
		Probabilities: working,
		Segmentation:  e.ds.Segmentation.clone(),
		Adjustments:   e.ds.Adjustments,
		Macroblocks:   mbs,
		Partitions:    parts,
	}
}

var framingErrors = []error{
	chunk.ErrChunkTooSmall,
	chunk.ErrStartCode,
	chunk.ErrDimensionMismatch,
	chunk.ErrTruncatedPartition,
	chunk.ErrPartitionCount,
	ErrNoKeyFrame,
}

// reject classifies err, logs it and wraps it in a FrameError.
func (e *Encoder) reject(index uint64, err error) error {
	kind := ErrHeaderParse
	for _, f := range framingErrors {
		if errors.Is(err, f) {
			kind = ErrFraming
			break
		}
	}
	e.log.Warn("frame rejected", "frame", index, "kind", kind.Error(), "error", err)
	return &FrameError{Index: index, Kind: kind, Err: err}
}
