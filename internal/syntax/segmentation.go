// internal/syntax/segmentation.go
package syntax

import (
	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/tables"
)

// NumSegments is the number of macroblock segments.
const NumSegments = 4

// SegmentFeatureData carries per-segment quantizer and loop filter values.
//
// When SegmentFeatureMode is set the values replace the frame level values;
// otherwise they are deltas.
//
// Source: RFC 6386 section 9.3
type SegmentFeatureData struct {
	SegmentFeatureMode Flag
	QuantizerUpdate    [NumSegments]Flagged[Signed[W7]]
	LoopFilterUpdate   [NumSegments]Flagged[Signed[W6]]
}

func (s SegmentFeatureData) encode(e *encoder) {
	s.SegmentFeatureMode.encode(e)
	encodeArray(e, s.QuantizerUpdate[:])
	encodeArray(e, s.LoopFilterUpdate[:])
}

func (SegmentFeatureData) decode(d *decoder) SegmentFeatureData {
	var s SegmentFeatureData
	s.SegmentFeatureMode = s.SegmentFeatureMode.decode(d)
	decodeArray(d, s.QuantizerUpdate[:])
	decodeArray(d, s.LoopFilterUpdate[:])
	return s
}

// SegmentProbs are the segment id tree probabilities coded with a
// segmentation map update.
type SegmentProbs [3]Flagged[Unsigned[W8]]

func (p SegmentProbs) encode(e *encoder) {
	encodeArray(e, p[:])
}

func (p SegmentProbs) decode(d *decoder) SegmentProbs {
	decodeArray(d, p[:])
	return p
}

// Probabilities returns the tree probabilities, 255 for uncoded entries.
func (p SegmentProbs) Probabilities() [3]bits.Probability {
	var out [3]bits.Probability
	for i, f := range p {
		out[i] = tables.SegmentIDProbsDefault
		if v, ok := f.Get(); ok {
			out[i] = bits.Probability(v)
		}
	}
	return out
}

// UpdateSegmentation is the segmentation part of a frame header.
//
// MBSegmentationMap is present exactly when UpdateMBSegmentationMap is set.
type UpdateSegmentation struct {
	UpdateMBSegmentationMap Flag
	SegmentFeatureData      Flagged[SegmentFeatureData]
	MBSegmentationMap       Optional[SegmentProbs]
}

func (u UpdateSegmentation) encode(e *encoder) {
	u.UpdateMBSegmentationMap.encode(e)
	u.SegmentFeatureData.encode(e)
	u.MBSegmentationMap.encodeIf(e, bool(u.UpdateMBSegmentationMap))
}

func (UpdateSegmentation) decode(d *decoder) UpdateSegmentation {
	var u UpdateSegmentation
	u.UpdateMBSegmentationMap = u.UpdateMBSegmentationMap.decode(d)
	u.SegmentFeatureData = u.SegmentFeatureData.decode(d)
	u.MBSegmentationMap = decodeOptional[SegmentProbs](d, bool(u.UpdateMBSegmentationMap))
	return u
}
