package vp8

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/syntax"
)

// SegmentationMap assigns a segment id to every macroblock, in raster
// order. Ids persist until a frame codes a new map or a key frame resets
// them.
type SegmentationMap struct {
	Cols int
	Rows int
	IDs  []uint8
}

// NewSegmentationMap returns an all-zero map covering a width×height
// frame.
func NewSegmentationMap(width, height uint16) SegmentationMap {
	cols, rows := macroblockDims(width, height)
	return SegmentationMap{Cols: cols, Rows: rows, IDs: make([]uint8, cols*rows)}
}

// At returns the segment id of the macroblock at col, row.
func (m *SegmentationMap) At(col, row int) uint8 {
	return m.IDs[row*m.Cols+col]
}

// clone returns a map that shares no storage with m.
func (m SegmentationMap) clone() SegmentationMap {
	m.IDs = append([]uint8(nil), m.IDs...)
	return m
}

// apply stores the coded segment ids when the frame updates the map, and
// otherwise fills the macroblock headers with the persistent ids so
// downstream stages see the id in force.
func (m *SegmentationMap) apply(mbs []syntax.MacroblockHeader, updated bool) {
	for i := range mbs {
		if updated {
			m.IDs[i] = mbs[i].SegmentID
		} else {
			mbs[i].SegmentID = m.IDs[i]
		}
	}
}

func (m *SegmentationMap) validate() error {
	if m.Cols < 0 || m.Rows < 0 || len(m.IDs) != m.Cols*m.Rows {
		return errors.Wrapf(ErrInvalidState, "segmentation map %dx%d with %d ids", m.Cols, m.Rows, len(m.IDs))
	}
	for i, id := range m.IDs {
		if id >= syntax.NumSegments {
			return errors.Wrapf(ErrInvalidState, "macroblock %d has segment %d", i, id)
		}
	}
	return nil
}
