package vp8

import "github.com/llehouerou/go-vp8/internal/syntax"

// MacroblockHeader is the mode information of one macroblock.
type MacroblockHeader = syntax.MacroblockHeader

// QuantizerIndices are a frame's base quantizer index and per-plane
// deltas.
type QuantizerIndices struct {
	YAC  uint8
	YDC  int8
	Y2DC int8
	Y2AC int8
	UVDC int8
	UVAC int8
}

func quantizerIndices(q syntax.QuantIndices) QuantizerIndices {
	delta := func(f syntax.Flagged[syntax.Signed[syntax.W4]]) int8 {
		v, _ := f.Get()
		return int8(v)
	}
	return QuantizerIndices{
		YAC:  uint8(q.YACQI),
		YDC:  delta(q.YDCDelta),
		Y2DC: delta(q.Y2DCDelta),
		Y2AC: delta(q.Y2ACDelta),
		UVDC: delta(q.UVDCDelta),
		UVAC: delta(q.UVACDelta),
	}
}

// LoopFilter holds a frame's loop filter parameters.
type LoopFilter struct {
	Simple    bool
	Level     uint8
	Sharpness uint8
}

// FrameContext is everything a residual stage needs to code one frame's
// DCT tokens consistently with a decoder replaying the first partition.
//
// Probabilities are the frame's working tables, which differ from the
// persistent ones when the frame does not refresh them. Segmentation and
// Adjustments are the persistent values after the frame was applied.
type FrameContext struct {
	Index     uint64
	KeyFrame  bool
	ShowFrame bool

	Probabilities ProbabilityTables
	Segmentation  SegmentationMap
	Adjustments   QuantizerFilterAdjustments
	Quantizer     QuantizerIndices
	LoopFilter    LoopFilter

	Macroblocks []MacroblockHeader
	// Partitions are the frame's DCT token partitions as found in the
	// input chunk.
	Partitions [][]byte
}

// ResidualStage consumes each accepted frame. The Encoder has already
// committed the frame's state when ProcessFrame is called.
type ResidualStage interface {
	ProcessFrame(ctx *FrameContext) error
}

// ResidualStageFunc adapts a function to ResidualStage.
type ResidualStageFunc func(ctx *FrameContext) error

// ProcessFrame calls f(ctx).
func (f ResidualStageFunc) ProcessFrame(ctx *FrameContext) error {
	return f(ctx)
}
