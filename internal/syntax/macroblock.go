// internal/syntax/macroblock.go
package syntax

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/tables"
)

// MacroblockHeader is the mode information coded for one macroblock in
// the first partition.
type MacroblockHeader struct {
	// SegmentID is coded only when the frame updates the segmentation map.
	SegmentID uint8
	// Skip is coded only when the frame header carries prob_skip_false.
	Skip bool

	// Intra prediction. BModes holds the coded sub-block modes for BPred
	// and the implied ones otherwise.
	YMode  YMode
	BModes [16]BMode
	UVMode YMode

	// Inter prediction. Ref is RefIntra for intra macroblocks.
	Ref    RefFrame
	MVMode MVMode
	MV     MotionVector

	// Split MV data. SubMVRefs is indexed by partition; SubMVs by
	// sub-block and mirrors MV for other modes.
	Split     SplitMode
	SubMVRefs [16]SubMVRef
	SubMVs    [16]MotionVector
}

// FrameModes is everything macroblock header coding needs beyond the
// bitstream itself: frame dimensions in macroblocks and the probabilities
// in force for the frame.
type FrameModes struct {
	KeyFrame bool
	Cols     int
	Rows     int

	UpdateSegmentMap bool
	SegmentProbs     [3]bits.Probability

	SkipCoded bool
	SkipProb  bits.Probability

	// Inter frames only.
	ProbIntra   bits.Probability
	ProbLast    bits.Probability
	ProbGolden  bits.Probability
	SignBias    [4]bool // indexed by RefFrame
	YModeProbs  [tables.NumYModes]bits.Probability
	UVModeProbs [tables.NumUVModes]bits.Probability
	MVProbs     [2][tables.NumMVProbs]bits.Probability
}

// KeyFrameModes returns the macroblock coding parameters of a key frame.
func KeyFrameModes(h *KeyFrameHeader, cols, rows int) *FrameModes {
	f := &FrameModes{KeyFrame: true, Cols: cols, Rows: rows}
	f.setCommon(h.UpdateSegmentation, h.ProbSkipFalse)
	return f
}

// InterFrameModes returns the macroblock coding parameters of an inter
// frame. The mode and MV probabilities are the working ones, after this
// frame's updates.
func InterFrameModes(h *InterFrameHeader, cols, rows int,
	yMode [tables.NumYModes]bits.Probability,
	uvMode [tables.NumUVModes]bits.Probability,
	mv [2][tables.NumMVProbs]bits.Probability,
) *FrameModes {
	f := &FrameModes{
		Cols:        cols,
		Rows:        rows,
		ProbIntra:   bits.Probability(h.ProbIntra),
		ProbLast:    bits.Probability(h.ProbLast),
		ProbGolden:  bits.Probability(h.ProbGolden),
		YModeProbs:  yMode,
		UVModeProbs: uvMode,
		MVProbs:     mv,
	}
	f.SignBias[RefGolden] = bool(h.SignBiasGolden)
	f.SignBias[RefAltRef] = bool(h.SignBiasAlternate)
	f.setCommon(h.UpdateSegmentation, h.ProbSkipFalse)
	return f
}

func (f *FrameModes) setCommon(seg Flagged[UpdateSegmentation], skip Flagged[Unsigned[W8]]) {
	for i := range f.SegmentProbs {
		f.SegmentProbs[i] = tables.SegmentIDProbsDefault
	}
	if u, ok := seg.Get(); ok && bool(u.UpdateMBSegmentationMap) {
		f.UpdateSegmentMap = true
		f.SegmentProbs = u.MBSegmentationMap.Value.Probabilities()
	}
	if p, ok := skip.Get(); ok {
		f.SkipCoded = true
		f.SkipProb = bits.Probability(p)
	}
}

// ParseMacroblocks reads the header of every macroblock of the frame in
// raster order.
//
// Source: RFC 6386 sections 19.3 and 20.11
func ParseMacroblocks(r *bits.Reader, f *FrameModes) ([]MacroblockHeader, error) {
	mbs := make([]MacroblockHeader, f.Cols*f.Rows)
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			mb := &mbs[row*f.Cols+col]
			if f.UpdateSegmentMap {
				mb.SegmentID = uint8(r.ReadTree(segmentIDTree, f.SegmentProbs[:]))
			}
			if f.SkipCoded {
				mb.Skip = r.ReadBool(f.SkipProb)
			}
			if f.KeyFrame {
				parseKeyFrameModes(r, mbs, mb, col, row, f.Cols)
				continue
			}
			if r.ReadBool(f.ProbIntra) {
				parseInterModes(r, mbs, mb, col, row, f)
			} else {
				parseIntraModes(r, mb, f)
			}
		}
	}
	if r.Overrun() {
		return nil, ErrTruncated
	}
	return mbs, nil
}

// bModeContext returns the sub-block modes above and left of sub-block k.
// Sub-blocks outside the frame count as BDCPred.
func bModeContext(mbs []MacroblockHeader, mb *MacroblockHeader, col, row, cols, k int) (above, left BMode) {
	switch {
	case k >= 4:
		above = mb.BModes[k-4]
	case row > 0:
		above = mbs[(row-1)*cols+col].BModes[k+12]
	default:
		above = BDCPred
	}
	switch {
	case k&3 != 0:
		left = mb.BModes[k-1]
	case col > 0:
		left = mbs[row*cols+col-1].BModes[k+3]
	default:
		left = BDCPred
	}
	return above, left
}

func parseKeyFrameModes(r *bits.Reader, mbs []MacroblockHeader, mb *MacroblockHeader, col, row, cols int) {
	mb.Ref = RefIntra
	mb.YMode = YMode(r.ReadTree(kfYModeTree, tables.KFYModeProbs[:]))
	if mb.YMode == BPred {
		for k := 0; k < 16; k++ {
			above, left := bModeContext(mbs, mb, col, row, cols, k)
			mb.BModes[k] = BMode(r.ReadTree(bModeTree, tables.KFBModeProbs[above][left][:]))
		}
	} else {
		fillBModes(mb)
	}
	mb.UVMode = YMode(r.ReadTree(uvModeTree, tables.KFUVModeProbs[:]))
}

func fillBModes(mb *MacroblockHeader) {
	m := impliedBMode(mb.YMode)
	for k := range mb.BModes {
		mb.BModes[k] = m
	}
}

func parseIntraModes(r *bits.Reader, mb *MacroblockHeader, f *FrameModes) {
	mb.Ref = RefIntra
	mb.YMode = YMode(r.ReadTree(yModeTree, f.YModeProbs[:]))
	if mb.YMode == BPred {
		for k := 0; k < 16; k++ {
			mb.BModes[k] = BMode(r.ReadTree(bModeTree, tables.BModeProbs[:]))
		}
	} else {
		fillBModes(mb)
	}
	mb.UVMode = YMode(r.ReadTree(uvModeTree, f.UVModeProbs[:]))
}

func readRef(r *bits.Reader, f *FrameModes) RefFrame {
	if !r.ReadBool(f.ProbLast) {
		return RefLast
	}
	if r.ReadBool(f.ProbGolden) {
		return RefAltRef
	}
	return RefGolden
}

func parseInterModes(r *bits.Reader, mbs []MacroblockHeader, mb *MacroblockHeader, col, row int, f *FrameModes) {
	mb.Ref = readRef(r, f)
	near := findNearMVs(mbs, col, row, f, mb.Ref)
	probs := near.probs()
	mb.MVMode = MVMode(r.ReadTree(mvRefTree, probs[:]))

	switch mb.MVMode {
	case MVNearest:
		mb.MV = near.nearest
	case MVNear:
		mb.MV = near.near
	case MVZero:
		mb.MV = MotionVector{}
	case MVNew:
		mb.MV = readMV(r, &f.MVProbs).add(near.best)
	case MVSplit:
		parseSplit(r, mbs, mb, col, row, f, near.best)
		return
	}
	for k := range mb.SubMVs {
		mb.SubMVs[k] = mb.MV
	}
}

func parseSplit(r *bits.Reader, mbs []MacroblockHeader, mb *MacroblockHeader, col, row int, f *FrameModes, best MotionVector) {
	mb.Split = SplitMode(r.ReadTree(mvPartitionTree, tables.MVPartitionProbs[:]))
	layout := &tables.MVPartitions[mb.Split]
	for part := 0; part < tables.MVPartitionCounts[mb.Split]; part++ {
		k := firstBlock(layout, part)
		left := leftSubMV(mbs, mb, col, row, f.Cols, k)
		above := aboveSubMV(mbs, mb, col, row, f.Cols, k)
		ref := SubMVRef(r.ReadTree(subMVRefTree, tables.SubMVRefProbs[subMVContext(left, above)][:]))
		mb.SubMVRefs[part] = ref

		var v MotionVector
		switch ref {
		case SubMVLeft:
			v = left
		case SubMVAbove:
			v = above
		case SubMVZero:
		case SubMVNew:
			v = readMV(r, &f.MVProbs).add(best)
		}
		fillPartition(mb, layout, part, v)
	}
	mb.MV = mb.SubMVs[15]
}

func firstBlock(layout *[16]uint8, part int) int {
	for k, p := range layout {
		if int(p) == part {
			return k
		}
	}
	return 0
}

func fillPartition(mb *MacroblockHeader, layout *[16]uint8, part int, v MotionVector) {
	for k, p := range layout {
		if int(p) == part {
			mb.SubMVs[k] = v
		}
	}
}

// EncodeMacroblocks writes the header of every macroblock in mbs, which
// must hold the whole frame in raster order. Motion vectors implied by the
// coded modes must match the stored ones.
func EncodeMacroblocks(w *bits.Writer, f *FrameModes, mbs []MacroblockHeader) error {
	if len(mbs) != f.Cols*f.Rows {
		return errors.Wrapf(ErrMacroblockCount, "got %d, want %dx%d", len(mbs), f.Cols, f.Rows)
	}
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			mb := &mbs[row*f.Cols+col]
			if err := encodeMacroblock(w, f, mbs, mb, col, row); err != nil {
				return errors.Wrapf(err, "macroblock %d,%d", col, row)
			}
		}
	}
	return nil
}

func encodeMacroblock(w *bits.Writer, f *FrameModes, mbs []MacroblockHeader, mb *MacroblockHeader, col, row int) error {
	if f.UpdateSegmentMap {
		if mb.SegmentID >= NumSegments {
			return errors.Wrapf(ErrSegmentID, "%d", mb.SegmentID)
		}
		w.PutTree(segmentIDTree, f.SegmentProbs[:], int(mb.SegmentID))
	}
	if f.SkipCoded {
		w.PutBool(mb.Skip, f.SkipProb)
	}
	if f.KeyFrame {
		if mb.Ref != RefIntra {
			return errors.Wrap(ErrInvalidMode, "inter macroblock in a key frame")
		}
		return encodeKeyFrameModes(w, mbs, mb, col, row, f.Cols)
	}
	if mb.Ref == RefIntra {
		w.PutBool(false, f.ProbIntra)
		return encodeIntraModes(w, mb, f)
	}
	w.PutBool(true, f.ProbIntra)
	return encodeInterModes(w, mbs, mb, col, row, f)
}

func checkIntra(mb *MacroblockHeader) error {
	if mb.YMode > BPred || mb.UVMode > TMPred {
		return errors.Wrapf(ErrInvalidMode, "y %d uv %d", mb.YMode, mb.UVMode)
	}
	if mb.YMode == BPred {
		for k, m := range mb.BModes {
			if m > BHUPred {
				return errors.Wrapf(ErrInvalidMode, "sub-block %d mode %d", k, m)
			}
		}
	} else {
		want := impliedBMode(mb.YMode)
		for k, m := range mb.BModes {
			if m != want {
				return errors.Wrapf(ErrInvalidMode, "sub-block %d mode %d, y mode %d implies %d", k, m, mb.YMode, want)
			}
		}
	}
	return nil
}

func encodeKeyFrameModes(w *bits.Writer, mbs []MacroblockHeader, mb *MacroblockHeader, col, row, cols int) error {
	if err := checkIntra(mb); err != nil {
		return err
	}
	w.PutTree(kfYModeTree, tables.KFYModeProbs[:], int(mb.YMode))
	if mb.YMode == BPred {
		for k := 0; k < 16; k++ {
			above, left := bModeContext(mbs, mb, col, row, cols, k)
			w.PutTree(bModeTree, tables.KFBModeProbs[above][left][:], int(mb.BModes[k]))
		}
	}
	w.PutTree(uvModeTree, tables.KFUVModeProbs[:], int(mb.UVMode))
	return nil
}

func encodeIntraModes(w *bits.Writer, mb *MacroblockHeader, f *FrameModes) error {
	if err := checkIntra(mb); err != nil {
		return err
	}
	w.PutTree(yModeTree, f.YModeProbs[:], int(mb.YMode))
	if mb.YMode == BPred {
		for k := 0; k < 16; k++ {
			w.PutTree(bModeTree, tables.BModeProbs[:], int(mb.BModes[k]))
		}
	}
	w.PutTree(uvModeTree, f.UVModeProbs[:], int(mb.UVMode))
	return nil
}

func encodeInterModes(w *bits.Writer, mbs []MacroblockHeader, mb *MacroblockHeader, col, row int, f *FrameModes) error {
	switch mb.Ref {
	case RefLast:
		w.PutBool(false, f.ProbLast)
	case RefGolden:
		w.PutBool(true, f.ProbLast)
		w.PutBool(false, f.ProbGolden)
	case RefAltRef:
		w.PutBool(true, f.ProbLast)
		w.PutBool(true, f.ProbGolden)
	default:
		return errors.Wrapf(ErrInvalidMode, "reference frame %d", mb.Ref)
	}
	if mb.MVMode > MVSplit {
		return errors.Wrapf(ErrInvalidMode, "MV mode %d", mb.MVMode)
	}

	near := findNearMVs(mbs, col, row, f, mb.Ref)
	probs := near.probs()
	w.PutTree(mvRefTree, probs[:], int(mb.MVMode))

	var implied MotionVector
	switch mb.MVMode {
	case MVNearest:
		implied = near.nearest
	case MVNear:
		implied = near.near
	case MVZero:
	case MVNew:
		return writeMV(w, mb.MV.sub(near.best), &f.MVProbs)
	case MVSplit:
		return encodeSplit(w, mbs, mb, col, row, f, near.best)
	}
	if mb.MV != implied {
		return errors.Wrapf(ErrMotionVector, "mode %d implies %v, have %v", mb.MVMode, implied, mb.MV)
	}
	return nil
}

func encodeSplit(w *bits.Writer, mbs []MacroblockHeader, mb *MacroblockHeader, col, row int, f *FrameModes, best MotionVector) error {
	if mb.Split > Split4x4 {
		return errors.Wrapf(ErrInvalidMode, "split mode %d", mb.Split)
	}
	w.PutTree(mvPartitionTree, tables.MVPartitionProbs[:], int(mb.Split))
	layout := &tables.MVPartitions[mb.Split]
	for part := 0; part < tables.MVPartitionCounts[mb.Split]; part++ {
		k := firstBlock(layout, part)
		left := leftSubMV(mbs, mb, col, row, f.Cols, k)
		above := aboveSubMV(mbs, mb, col, row, f.Cols, k)
		ref := mb.SubMVRefs[part]
		if ref > SubMVNew {
			return errors.Wrapf(ErrInvalidMode, "partition %d reference %d", part, ref)
		}
		w.PutTree(subMVRefTree, tables.SubMVRefProbs[subMVContext(left, above)][:], int(ref))

		v := mb.SubMVs[k]
		var implied MotionVector
		switch ref {
		case SubMVLeft:
			implied = left
		case SubMVAbove:
			implied = above
		case SubMVZero:
		case SubMVNew:
			if err := writeMV(w, v.sub(best), &f.MVProbs); err != nil {
				return err
			}
			implied = v
		}
		if v != implied {
			return errors.Wrapf(ErrMotionVector, "partition %d implies %v, have %v", part, implied, v)
		}
		for j, p := range layout {
			if int(p) == part && mb.SubMVs[j] != v {
				return errors.Wrapf(ErrMotionVector, "partition %d sub-block %d differs", part, j)
			}
		}
	}
	if mb.MV != mb.SubMVs[15] {
		return errors.Wrap(ErrMotionVector, "split macroblock vector must equal its last sub-block")
	}
	return nil
}
