package syntax

import "github.com/llehouerou/go-vp8/internal/bits"

// YMode is a 16x16 luma prediction mode. DC through TM also serve as
// chroma modes.
type YMode uint8

const (
	DCPred YMode = iota
	VPred
	HPred
	TMPred
	BPred // per sub-block modes
)

// BMode is a 4x4 sub-block luma prediction mode.
type BMode uint8

const (
	BDCPred BMode = iota
	BTMPred
	BVEPred
	BHEPred
	BRDPred
	BVRPred
	BLDPred
	BVLPred
	BHDPred
	BHUPred
)

// impliedBMode is the sub-block mode context left by a macroblock that is
// not BPred.
func impliedBMode(m YMode) BMode {
	switch m {
	case VPred:
		return BVEPred
	case HPred:
		return BHEPred
	case TMPred:
		return BTMPred
	default:
		return BDCPred
	}
}

// RefFrame identifies the reference buffer of a macroblock.
type RefFrame uint8

const (
	RefIntra RefFrame = iota
	RefLast
	RefGolden
	RefAltRef
)

// MVMode is the motion vector mode of an inter macroblock.
type MVMode uint8

const (
	MVNearest MVMode = iota
	MVNear
	MVZero
	MVNew
	MVSplit
)

// SplitMode is the partitioning of a split MV macroblock.
type SplitMode uint8

const (
	Split16x8 SplitMode = iota // top and bottom halves
	Split8x16                  // left and right halves
	Split8x8                   // quarters
	Split4x4                   // every sub-block
)

// SubMVRef is how a split partition's motion vector is coded.
type SubMVRef uint8

const (
	SubMVLeft SubMVRef = iota
	SubMVAbove
	SubMVZero
	SubMVNew
)

// Coding trees.
//
// Source: RFC 6386 sections 11.2, 16.2, 16.3, 16.4, 17.2, 19.3
var (
	segmentIDTree = bits.Tree{2, 4, -0, -1, -2, -3}

	kfYModeTree = bits.Tree{
		-int8(BPred), 2,
		4, 6,
		-int8(DCPred), -int8(VPred),
		-int8(HPred), -int8(TMPred),
	}

	yModeTree = bits.Tree{
		-int8(DCPred), 2,
		4, 6,
		-int8(VPred), -int8(HPred),
		-int8(TMPred), -int8(BPred),
	}

	uvModeTree = bits.Tree{
		-int8(DCPred), 2,
		-int8(VPred), 4,
		-int8(HPred), -int8(TMPred),
	}

	bModeTree = bits.Tree{
		-int8(BDCPred), 2,
		-int8(BTMPred), 4,
		-int8(BVEPred), 6,
		8, 12,
		-int8(BHEPred), 10,
		-int8(BRDPred), -int8(BVRPred),
		-int8(BLDPred), 14,
		-int8(BVLPred), 16,
		-int8(BHDPred), -int8(BHUPred),
	}

	mvRefTree = bits.Tree{
		-int8(MVZero), 2,
		-int8(MVNearest), 4,
		-int8(MVNear), 6,
		-int8(MVNew), -int8(MVSplit),
	}

	mvPartitionTree = bits.Tree{
		-int8(Split4x4), 2,
		-int8(Split8x8), 4,
		-int8(Split16x8), -int8(Split8x16),
	}

	subMVRefTree = bits.Tree{
		-int8(SubMVLeft), 2,
		-int8(SubMVAbove), 4,
		-int8(SubMVZero), -int8(SubMVNew),
	}

	shortMVTree = bits.Tree{
		2, 8,
		4, 6,
		-0, -1,
		-2, -3,
		10, 12,
		-4, -5,
		-6, -7,
	}
)
