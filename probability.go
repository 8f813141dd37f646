package vp8

import (
	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/syntax"
	"github.com/llehouerou/go-vp8/internal/tables"
)

// Probability is the chance, scaled to 256, that a coded bit is zero.
type Probability = bits.Probability

// CoeffProbs are the DCT token probabilities, indexed by
// [plane][band][context][node].
type CoeffProbs = tables.CoeffProbs

// ProbabilityTables are the adaptive probabilities carried from frame to
// frame. It is a plain value: assignment copies it.
//
// Source: RFC 6386 sections 13.4, 16.2 and 17.2
type ProbabilityTables struct {
	Coefficients CoeffProbs
	YMode        [tables.NumYModes]Probability
	UVMode       [tables.NumUVModes]Probability
	MotionVector [2][tables.NumMVProbs]Probability
}

// DefaultProbabilityTables returns the tables installed by every key frame.
func DefaultProbabilityTables() ProbabilityTables {
	return ProbabilityTables{
		Coefficients: tables.DefaultCoeffProbs,
		YMode:        tables.DefaultYModeProbs,
		UVMode:       tables.DefaultUVModeProbs,
		MotionVector: tables.DefaultMVProbs,
	}
}

// coeffProbUpdate replaces every coefficient probability the header
// updates.
func (p *ProbabilityTables) coeffProbUpdate(u *syntax.TokenProbUpdates) {
	u.Each(func(plane, band, ctx, node int, v Probability) {
		p.Coefficients[plane][band][ctx][node] = v
	})
}

// update applies all probability updates of an inter frame header.
func (p *ProbabilityTables) update(h *syntax.InterFrameHeader) {
	p.coeffProbUpdate(&h.TokenProbUpdate)
	if y, ok := h.IntraYModeProbs.Get(); ok {
		for i, v := range y {
			p.YMode[i] = Probability(v)
		}
	}
	if uv, ok := h.IntraUVModeProbs.Get(); ok {
		for i, v := range uv {
			p.UVMode[i] = Probability(v)
		}
	}
	h.MVProbUpdate.Each(func(component, index int, v Probability) {
		p.MotionVector[component][index] = v
	})
}
