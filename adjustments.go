package vp8

import "github.com/llehouerou/go-vp8/internal/syntax"

// QuantizerFilterAdjustments are the per-segment quantizer and loop filter
// values and the per-reference and per-mode loop filter deltas.
//
// Source: RFC 6386 sections 9.3 and 9.6
type QuantizerFilterAdjustments struct {
	// AbsoluteSegmentAdjustments reports whether the segment values
	// replace the frame values instead of adjusting them.
	AbsoluteSegmentAdjustments bool
	SegmentQuantizer           [syntax.NumSegments]int8
	SegmentFilter              [syntax.NumSegments]int8
	RefFilter                  [4]int8
	ModeFilter                 [4]int8
}

// adjustmentHeader is implemented by both frame header kinds.
type adjustmentHeader interface {
	SegmentationHeader() (syntax.UpdateSegmentation, bool)
	LFDeltaHeader() (syntax.ModeRefLFDeltaUpdate, bool)
}

// update applies a frame header's adjustments. Segment feature data
// replaces all four segments, with uncoded entries becoming zero. Loop
// filter deltas replace only the entries that are coded.
func (a *QuantizerFilterAdjustments) update(h adjustmentHeader) {
	if seg, ok := h.SegmentationHeader(); ok {
		if data, ok := seg.SegmentFeatureData.Get(); ok {
			a.AbsoluteSegmentAdjustments = bool(data.SegmentFeatureMode)
			for i := range a.SegmentQuantizer {
				q, _ := data.QuantizerUpdate[i].Get()
				f, _ := data.LoopFilterUpdate[i].Get()
				a.SegmentQuantizer[i], a.SegmentFilter[i] = int8(q), int8(f)
			}
		}
	}
	if d, ok := h.LFDeltaHeader(); ok {
		for i, u := range d.RefUpdate {
			if v, ok := u.Get(); ok {
				a.RefFilter[i] = int8(v)
			}
		}
		for i, u := range d.ModeUpdate {
			if v, ok := u.Get(); ok {
				a.ModeFilter[i] = int8(v)
			}
		}
	}
}
