// internal/syntax/probupdate.go
package syntax

import (
	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/tables"
)

// TokenProbUpdate is one optional coefficient probability replacement.
// Its presence bit is coded at the update probability for its position in
// the enclosing enumeration.
type TokenProbUpdate struct {
	Prob Flagged[Unsigned[W8]]
}

func coeffUpdateProb(path []int) bits.Probability {
	if len(path) != 4 {
		panic("syntax: token probability update outside a 4-level enumeration")
	}
	return tables.CoeffUpdateProbs[path[0]][path[1]][path[2]][path[3]]
}

func (u TokenProbUpdate) encode(e *encoder) {
	u.Prob.encodeWith(e, coeffUpdateProb(e.path))
}

func (TokenProbUpdate) decode(d *decoder) TokenProbUpdate {
	return TokenProbUpdate{Prob: decodeFlagged[Unsigned[W8]](d, coeffUpdateProb(d.path))}
}

// Coefficient probability update enumeration, [plane][band][context][node].
type (
	TokenProbUpdates   [tables.NumBlockTypes]BandProbUpdates
	BandProbUpdates    [tables.NumCoeffBands]ContextProbUpdates
	ContextProbUpdates [tables.NumPrevCoeffCtxs]NodeProbUpdates
	NodeProbUpdates    [tables.NumEntropyNodes]TokenProbUpdate
)

func (t TokenProbUpdates) encode(e *encoder) { encodeEnumerate(e, t[:]) }
func (t TokenProbUpdates) decode(d *decoder) TokenProbUpdates {
	decodeEnumerate(d, t[:])
	return t
}

func (t BandProbUpdates) encode(e *encoder) { encodeEnumerate(e, t[:]) }
func (t BandProbUpdates) decode(d *decoder) BandProbUpdates {
	decodeEnumerate(d, t[:])
	return t
}

func (t ContextProbUpdates) encode(e *encoder) { encodeEnumerate(e, t[:]) }
func (t ContextProbUpdates) decode(d *decoder) ContextProbUpdates {
	decodeEnumerate(d, t[:])
	return t
}

func (t NodeProbUpdates) encode(e *encoder) { encodeEnumerate(e, t[:]) }
func (t NodeProbUpdates) decode(d *decoder) NodeProbUpdates {
	decodeEnumerate(d, t[:])
	return t
}

// Set marks the coefficient probability at [plane][band][ctx][node] as
// updated to p.
func (t *TokenProbUpdates) Set(plane, band, ctx, node int, p uint8) {
	t[plane][band][ctx][node].Prob = Some(Unsigned[W8](p))
}

// Each calls fn for every present update.
func (t *TokenProbUpdates) Each(fn func(plane, band, ctx, node int, p bits.Probability)) {
	for i := range t {
		for j := range t[i] {
			for k := range t[i][j] {
				for l := range t[i][j][k] {
					if v, ok := t[i][j][k][l].Prob.Get(); ok {
						fn(i, j, k, l, bits.Probability(v))
					}
				}
			}
		}
	}
}

// MVProbUpdate is one optional motion vector probability replacement,
// coded as a 7-bit value.
type MVProbUpdate struct {
	Prob Flagged[Unsigned[W7]]
}

func mvUpdateProb(path []int) bits.Probability {
	if len(path) != 2 {
		panic("syntax: MV probability update outside a 2-level enumeration")
	}
	return tables.MVUpdateProbs[path[0]][path[1]]
}

func (u MVProbUpdate) encode(e *encoder) {
	u.Prob.encodeWith(e, mvUpdateProb(e.path))
}

func (MVProbUpdate) decode(d *decoder) MVProbUpdate {
	return MVProbUpdate{Prob: decodeFlagged[Unsigned[W7]](d, mvUpdateProb(d.path))}
}

// Probability returns the probability a coded value stands for. A coded
// zero means probability 1.
func (u MVProbUpdate) Probability() bits.Probability {
	v := u.Prob.Value
	if v == 0 {
		return 1
	}
	return bits.Probability(v << 1)
}

// Motion vector probability update enumeration, [component][index].
type (
	MVProbUpdates      [2]MVComponentUpdates
	MVComponentUpdates [tables.NumMVProbs]MVProbUpdate
)

func (t MVProbUpdates) encode(e *encoder) { encodeEnumerate(e, t[:]) }
func (t MVProbUpdates) decode(d *decoder) MVProbUpdates {
	decodeEnumerate(d, t[:])
	return t
}

func (t MVComponentUpdates) encode(e *encoder) { encodeEnumerate(e, t[:]) }
func (t MVComponentUpdates) decode(d *decoder) MVComponentUpdates {
	decodeEnumerate(d, t[:])
	return t
}

// Set marks the motion vector probability at [component][index] as
// updated with coded value v.
func (t *MVProbUpdates) Set(component, index int, v uint8) {
	t[component][index].Prob = Some(Unsigned[W7](v))
}

// Each calls fn for every present update with the probability it stands
// for.
func (t *MVProbUpdates) Each(fn func(component, index int, p bits.Probability)) {
	for i := range t {
		for j, u := range t[i] {
			if u.Prob.Present {
				fn(i, j, u.Probability())
			}
		}
	}
}
