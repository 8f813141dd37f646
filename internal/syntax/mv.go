// internal/syntax/mv.go
package syntax

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/tables"
)

// MotionVector is a luma displacement in the doubled units produced by
// the motion vector syntax. Row is the vertical component.
type MotionVector struct {
	Row int16
	Col int16
}

// IsZero reports whether both components are zero.
func (v MotionVector) IsZero() bool {
	return v.Row == 0 && v.Col == 0
}

func (v MotionVector) add(o MotionVector) MotionVector {
	return MotionVector{Row: v.Row + o.Row, Col: v.Col + o.Col}
}

func (v MotionVector) sub(o MotionVector) MotionVector {
	return MotionVector{Row: v.Row - o.Row, Col: v.Col - o.Col}
}

func (v MotionVector) neg() MotionVector {
	return MotionVector{Row: -v.Row, Col: -v.Col}
}

// maxMVMagnitude is the largest component magnitude the long form codes.
const maxMVMagnitude = 1<<tables.MVLongBits - 1

// readMVComponent decodes one component in coded units.
//
// Source: RFC 6386 section 17.2 (read_mvcomponent)
func readMVComponent(r *bits.Reader, p *[tables.NumMVProbs]bits.Probability) int16 {
	var x int
	if r.ReadBool(p[tables.MVIsShort]) {
		for i := 0; i < 3; i++ {
			if r.ReadBool(p[tables.MVLong+i]) {
				x += 1 << i
			}
		}
		for i := tables.MVLongBits - 1; i > 3; i-- {
			if r.ReadBool(p[tables.MVLong+i]) {
				x += 1 << i
			}
		}
		// Bit 3 is implied when no higher bit is set.
		if x&0xFFF0 == 0 || r.ReadBool(p[tables.MVLong+3]) {
			x += 8
		}
	} else {
		x = r.ReadTree(shortMVTree, p[tables.MVShort:tables.MVLong])
	}
	if x != 0 && r.ReadBool(p[tables.MVSign]) {
		x = -x
	}
	return int16(x)
}

func writeMVComponent(w *bits.Writer, v int, p *[tables.NumMVProbs]bits.Probability) {
	x := v
	if x < 0 {
		x = -x
	}
	if x < tables.MVShortTree {
		w.PutBool(false, p[tables.MVIsShort])
		w.PutTree(shortMVTree, p[tables.MVShort:tables.MVLong], x)
		if x == 0 {
			return
		}
	} else {
		w.PutBool(true, p[tables.MVIsShort])
		for i := 0; i < 3; i++ {
			w.PutBool((x>>uint(i))&1 != 0, p[tables.MVLong+i])
		}
		for i := tables.MVLongBits - 1; i > 3; i-- {
			w.PutBool((x>>uint(i))&1 != 0, p[tables.MVLong+i])
		}
		if x&0xFFF0 != 0 {
			w.PutBool((x>>3)&1 != 0, p[tables.MVLong+3])
		}
	}
	w.PutBool(v < 0, p[tables.MVSign])
}

// readMV decodes a motion vector delta, row first.
func readMV(r *bits.Reader, probs *[2][tables.NumMVProbs]bits.Probability) MotionVector {
	row := readMVComponent(r, &probs[0])
	col := readMVComponent(r, &probs[1])
	return MotionVector{Row: row * 2, Col: col * 2}
}

// writeMV encodes a motion vector delta, row first.
func writeMV(w *bits.Writer, v MotionVector, probs *[2][tables.NumMVProbs]bits.Probability) error {
	for _, c := range [2]int16{v.Row, v.Col} {
		if c%2 != 0 {
			return errors.Wrapf(ErrMotionVector, "odd component %d", c)
		}
		if c/2 > maxMVMagnitude || c/2 < -maxMVMagnitude {
			return errors.Wrapf(ErrMotionVector, "component %d exceeds the long form", c)
		}
	}
	writeMVComponent(w, int(v.Row/2), &probs[0])
	writeMVComponent(w, int(v.Col/2), &probs[1])
	return nil
}

// mvBounds limits predicted motion vectors to the frame plus a one
// macroblock margin. Edges of frames 256 or more macroblocks across do
// not fit in int16, so they stay int.
type mvBounds struct {
	toLeft, toRight, toTop, toBottom int
}

func boundsFor(col, row, cols, rows int) mvBounds {
	return mvBounds{
		toLeft:   -((col + 1) << 7),
		toRight:  (cols - col) << 7,
		toTop:    -((row + 1) << 7),
		toBottom: (rows - row) << 7,
	}
}

func (b mvBounds) clamp(v MotionVector) MotionVector {
	return MotionVector{
		Row: int16(clampInt(int(v.Row), b.toTop, b.toBottom)),
		Col: int16(clampInt(int(v.Col), b.toLeft, b.toRight)),
	}
}

// clampInt limits v to [lo, hi]. The result lies between v and the
// violated bound, so it fits in v's original type.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nearMVs is the result of the neighbouring motion vector search.
type nearMVs struct {
	best, nearest, near MotionVector
	counts              [4]int
}

// probs returns the MV reference tree probabilities for the search
// result.
func (n *nearMVs) probs() [4]bits.Probability {
	var p [4]bits.Probability
	for i := range p {
		p[i] = tables.ModeContexts[n.counts[i]][i]
	}
	return p
}

const (
	cntIntra = iota
	cntNearest
	cntNear
	cntSplit
)

// findNearMVs searches the above, left and above-left neighbours of the
// macroblock at (col, row). mbs holds the macroblocks already coded in
// this frame in raster order.
//
// Source: RFC 6386 section 16.3 (vp8_find_near_mvs)
func findNearMVs(mbs []MacroblockHeader, col, row int, f *FrameModes, ref RefFrame) nearMVs {
	var (
		mvs [4]MotionVector
		cnt [4]int
		n   = 0
	)
	neighbour := func(c, r int) *MacroblockHeader {
		if c < 0 || r < 0 {
			return nil
		}
		return &mbs[r*f.Cols+c]
	}
	above := neighbour(col, row-1)
	left := neighbour(col-1, row)
	aboveLeft := neighbour(col-1, row-1)

	inter := func(mb *MacroblockHeader) bool {
		return mb != nil && mb.Ref != RefIntra
	}
	biased := func(mb *MacroblockHeader) MotionVector {
		if f.SignBias[mb.Ref] != f.SignBias[ref] {
			return mb.MV.neg()
		}
		return mb.MV
	}

	if inter(above) {
		if !above.MV.IsZero() {
			n++
			mvs[n] = biased(above)
			cnt[n] += 2
		} else {
			cnt[cntIntra] += 2
		}
	}
	if inter(left) {
		if !left.MV.IsZero() {
			v := biased(left)
			if v != mvs[n] {
				n++
				mvs[n] = v
			}
			cnt[n] += 2
		} else {
			cnt[cntIntra] += 2
		}
	}
	if inter(aboveLeft) {
		if !aboveLeft.MV.IsZero() {
			v := biased(aboveLeft)
			if v != mvs[n] {
				n++
				mvs[n] = v
			}
			cnt[n]++
		} else {
			cnt[cntIntra]++
		}
	}

	// Three distinct vectors where the last matches the nearest.
	if cnt[cntSplit] != 0 && mvs[n] == mvs[cntNearest] {
		cnt[cntNearest]++
	}

	cnt[cntSplit] = 0
	if isSplit(above) {
		cnt[cntSplit] += 2
	}
	if isSplit(left) {
		cnt[cntSplit] += 2
	}
	if isSplit(aboveLeft) {
		cnt[cntSplit]++
	}

	if cnt[cntNear] > cnt[cntNearest] {
		cnt[cntNearest], cnt[cntNear] = cnt[cntNear], cnt[cntNearest]
		mvs[cntNearest], mvs[cntNear] = mvs[cntNear], mvs[cntNearest]
	}
	if cnt[cntNearest] >= cnt[cntIntra] {
		mvs[cntIntra] = mvs[cntNearest]
	}

	b := boundsFor(col, row, f.Cols, f.Rows)
	return nearMVs{
		best:    b.clamp(mvs[cntIntra]),
		nearest: b.clamp(mvs[cntNearest]),
		near:    b.clamp(mvs[cntNear]),
		counts:  cnt,
	}
}

func isSplit(mb *MacroblockHeader) bool {
	return mb != nil && mb.Ref != RefIntra && mb.MVMode == MVSplit
}

// leftSubMV returns the motion vector left of sub-block k.
func leftSubMV(mbs []MacroblockHeader, cur *MacroblockHeader, col, row, cols, k int) MotionVector {
	if k&3 != 0 {
		return cur.SubMVs[k-1]
	}
	if col == 0 {
		return MotionVector{}
	}
	return neighbourSubMV(&mbs[row*cols+col-1], k+3)
}

// aboveSubMV returns the motion vector above sub-block k.
func aboveSubMV(mbs []MacroblockHeader, cur *MacroblockHeader, col, row, cols, k int) MotionVector {
	if k >= 4 {
		return cur.SubMVs[k-4]
	}
	if row == 0 {
		return MotionVector{}
	}
	return neighbourSubMV(&mbs[(row-1)*cols+col], k+12)
}

func neighbourSubMV(mb *MacroblockHeader, k int) MotionVector {
	if mb.Ref == RefIntra {
		return MotionVector{}
	}
	if mb.MVMode != MVSplit {
		return mb.MV
	}
	return mb.SubMVs[k]
}

// subMVContext selects the sub-block reference probabilities from the left
// and above vectors.
//
// Source: RFC 6386 section 16.4
func subMVContext(left, above MotionVector) int {
	lez := left.IsZero()
	aez := above.IsZero()
	switch {
	case left == above && lez:
		return 4
	case left == above:
		return 3
	case aez:
		return 2
	case lez:
		return 1
	default:
		return 0
	}
}
