// internal/syntax/interframe.go
package syntax

import (
	"github.com/llehouerou/go-vp8/internal/bits"
)

// YModeProbs is an inter frame luma mode probability update.
type YModeProbs [4]Unsigned[W8]

func (p YModeProbs) encode(e *encoder) { encodeArray(e, p[:]) }
func (p YModeProbs) decode(d *decoder) YModeProbs {
	decodeArray(d, p[:])
	return p
}

// UVModeProbs is an inter frame chroma mode probability update.
type UVModeProbs [3]Unsigned[W8]

func (p UVModeProbs) encode(e *encoder) { encodeArray(e, p[:]) }
func (p UVModeProbs) decode(d *decoder) UVModeProbs {
	decodeArray(d, p[:])
	return p
}

// InterFrameHeader is the first partition header of an inter frame.
//
// It shares the segmentation, loop filter and quantizer fields with
// KeyFrameHeader, followed by reference buffer management, probability
// updates and the reference selection probabilities.
//
// CopyBufferToGolden is present exactly when RefreshGoldenFrame is clear,
// and CopyBufferToAlternate exactly when RefreshAlternateFrame is clear.
//
// Source: RFC 6386 section 19.2
type InterFrameHeader struct {
	UpdateSegmentation    Flagged[UpdateSegmentation]
	FilterType            Flag
	LoopFilterLevel       Unsigned[W6]
	SharpnessLevel        Unsigned[W3]
	ModeLFAdjustments     Flagged[Flagged[ModeRefLFDeltaUpdate]]
	Log2NumPartitions     Unsigned[W2]
	QuantIndices          QuantIndices
	RefreshGoldenFrame    Flag
	RefreshAlternateFrame Flag
	CopyBufferToGolden    Optional[Unsigned[W2]]
	CopyBufferToAlternate Optional[Unsigned[W2]]
	SignBiasGolden        Flag
	SignBiasAlternate     Flag
	RefreshEntropyProbs   Flag
	RefreshLast           Flag
	TokenProbUpdate       TokenProbUpdates
	ProbSkipFalse         Flagged[Unsigned[W8]]
	ProbIntra             Unsigned[W8]
	ProbLast              Unsigned[W8]
	ProbGolden            Unsigned[W8]
	IntraYModeProbs       Flagged[YModeProbs]
	IntraUVModeProbs      Flagged[UVModeProbs]
	MVProbUpdate          MVProbUpdates
}

func (h *InterFrameHeader) encode(e *encoder) {
	h.UpdateSegmentation.encode(e)
	h.FilterType.encode(e)
	h.LoopFilterLevel.encode(e)
	h.SharpnessLevel.encode(e)
	h.ModeLFAdjustments.encode(e)
	h.Log2NumPartitions.encode(e)
	h.QuantIndices.encode(e)
	h.RefreshGoldenFrame.encode(e)
	h.RefreshAlternateFrame.encode(e)
	h.CopyBufferToGolden.encodeIf(e, !bool(h.RefreshGoldenFrame))
	h.CopyBufferToAlternate.encodeIf(e, !bool(h.RefreshAlternateFrame))
	h.SignBiasGolden.encode(e)
	h.SignBiasAlternate.encode(e)
	h.RefreshEntropyProbs.encode(e)
	h.RefreshLast.encode(e)
	h.TokenProbUpdate.encode(e)
	h.ProbSkipFalse.encode(e)
	h.ProbIntra.encode(e)
	h.ProbLast.encode(e)
	h.ProbGolden.encode(e)
	h.IntraYModeProbs.encode(e)
	h.IntraUVModeProbs.encode(e)
	h.MVProbUpdate.encode(e)
}

func (h *InterFrameHeader) decode(d *decoder) {
	h.UpdateSegmentation = h.UpdateSegmentation.decode(d)
	h.FilterType = h.FilterType.decode(d)
	h.LoopFilterLevel = h.LoopFilterLevel.decode(d)
	h.SharpnessLevel = h.SharpnessLevel.decode(d)
	h.ModeLFAdjustments = h.ModeLFAdjustments.decode(d)
	h.Log2NumPartitions = h.Log2NumPartitions.decode(d)
	h.QuantIndices = h.QuantIndices.decode(d)
	h.RefreshGoldenFrame = h.RefreshGoldenFrame.decode(d)
	h.RefreshAlternateFrame = h.RefreshAlternateFrame.decode(d)
	h.CopyBufferToGolden = decodeOptional[Unsigned[W2]](d, !bool(h.RefreshGoldenFrame))
	h.CopyBufferToAlternate = decodeOptional[Unsigned[W2]](d, !bool(h.RefreshAlternateFrame))
	h.SignBiasGolden = h.SignBiasGolden.decode(d)
	h.SignBiasAlternate = h.SignBiasAlternate.decode(d)
	h.RefreshEntropyProbs = h.RefreshEntropyProbs.decode(d)
	h.RefreshLast = h.RefreshLast.decode(d)
	h.TokenProbUpdate = h.TokenProbUpdate.decode(d)
	h.ProbSkipFalse = h.ProbSkipFalse.decode(d)
	h.ProbIntra = h.ProbIntra.decode(d)
	h.ProbLast = h.ProbLast.decode(d)
	h.ProbGolden = h.ProbGolden.decode(d)
	h.IntraYModeProbs = h.IntraYModeProbs.decode(d)
	h.IntraUVModeProbs = h.IntraUVModeProbs.decode(d)
	h.MVProbUpdate = h.MVProbUpdate.decode(d)
}

// Encode writes the header to w. On error the contents of w are undefined
// and must be discarded.
func (h *InterFrameHeader) Encode(w *bits.Writer) error {
	e := &encoder{w: w}
	h.encode(e)
	return e.err
}

// ParseInterFrameHeader reads an inter frame header from r.
func ParseInterFrameHeader(r *bits.Reader) (*InterFrameHeader, error) {
	h := &InterFrameHeader{}
	h.decode(&decoder{r: r})
	if r.Overrun() {
		return nil, ErrTruncated
	}
	return h, nil
}

// SegmentationHeader returns the segmentation update, if any.
func (h *InterFrameHeader) SegmentationHeader() (UpdateSegmentation, bool) {
	return h.UpdateSegmentation.Get()
}

// LFDeltaHeader returns the loop filter delta update, if any.
func (h *InterFrameHeader) LFDeltaHeader() (ModeRefLFDeltaUpdate, bool) {
	return lfDeltas(h.ModeLFAdjustments)
}
