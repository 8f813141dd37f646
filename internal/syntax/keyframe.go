// internal/syntax/keyframe.go
package syntax

import (
	"github.com/llehouerou/go-vp8/internal/bits"
)

// KeyFrameHeader is the first partition header of a key frame.
//
// Fields appear in bitstream order:
//   - color_space, clamping_type: 1 bit each
//   - segmentation update (flagged)
//   - filter_type: 1 bit, loop_filter_level: 6 bits, sharpness_level: 3 bits
//   - mode/ref loop filter deltas (flagged, then flagged update)
//   - log2_nbr_of_dct_partitions: 2 bits
//   - quantizer indices
//   - refresh_entropy_probs: 1 bit
//   - coefficient probability updates
//   - mb_no_coeff_skip with prob_skip_false (flagged 8 bits)
//
// Source: RFC 6386 section 19.2
type KeyFrameHeader struct {
	ColorSpace          Flag
	ClampingType        Flag
	UpdateSegmentation  Flagged[UpdateSegmentation]
	FilterType          Flag
	LoopFilterLevel     Unsigned[W6]
	SharpnessLevel      Unsigned[W3]
	ModeLFAdjustments   Flagged[Flagged[ModeRefLFDeltaUpdate]]
	Log2NumPartitions   Unsigned[W2]
	QuantIndices        QuantIndices
	RefreshEntropyProbs Flag
	TokenProbUpdate     TokenProbUpdates
	ProbSkipFalse       Flagged[Unsigned[W8]]
}

func (h *KeyFrameHeader) encode(e *encoder) {
	h.ColorSpace.encode(e)
	h.ClampingType.encode(e)
	h.UpdateSegmentation.encode(e)
	h.FilterType.encode(e)
	h.LoopFilterLevel.encode(e)
	h.SharpnessLevel.encode(e)
	h.ModeLFAdjustments.encode(e)
	h.Log2NumPartitions.encode(e)
	h.QuantIndices.encode(e)
	h.RefreshEntropyProbs.encode(e)
	h.TokenProbUpdate.encode(e)
	h.ProbSkipFalse.encode(e)
}

func (h *KeyFrameHeader) decode(d *decoder) {
	h.ColorSpace = h.ColorSpace.decode(d)
	h.ClampingType = h.ClampingType.decode(d)
	h.UpdateSegmentation = h.UpdateSegmentation.decode(d)
	h.FilterType = h.FilterType.decode(d)
	h.LoopFilterLevel = h.LoopFilterLevel.decode(d)
	h.SharpnessLevel = h.SharpnessLevel.decode(d)
	h.ModeLFAdjustments = h.ModeLFAdjustments.decode(d)
	h.Log2NumPartitions = h.Log2NumPartitions.decode(d)
	h.QuantIndices = h.QuantIndices.decode(d)
	h.RefreshEntropyProbs = h.RefreshEntropyProbs.decode(d)
	h.TokenProbUpdate = h.TokenProbUpdate.decode(d)
	h.ProbSkipFalse = h.ProbSkipFalse.decode(d)
}

// Encode writes the header to w. On error the contents of w are undefined
// and must be discarded.
func (h *KeyFrameHeader) Encode(w *bits.Writer) error {
	e := &encoder{w: w}
	h.encode(e)
	return e.err
}

// ParseKeyFrameHeader reads a key frame header from r.
func ParseKeyFrameHeader(r *bits.Reader) (*KeyFrameHeader, error) {
	h := &KeyFrameHeader{}
	h.decode(&decoder{r: r})
	if r.Overrun() {
		return nil, ErrTruncated
	}
	return h, nil
}

// SegmentationHeader returns the segmentation update, if any.
func (h *KeyFrameHeader) SegmentationHeader() (UpdateSegmentation, bool) {
	return h.UpdateSegmentation.Get()
}

// LFDeltaHeader returns the loop filter delta update, if any.
func (h *KeyFrameHeader) LFDeltaHeader() (ModeRefLFDeltaUpdate, bool) {
	return lfDeltas(h.ModeLFAdjustments)
}

func lfDeltas(f Flagged[Flagged[ModeRefLFDeltaUpdate]]) (ModeRefLFDeltaUpdate, bool) {
	inner, ok := f.Get()
	if !ok {
		return ModeRefLFDeltaUpdate{}, false
	}
	return inner.Get()
}
