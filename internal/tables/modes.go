package tables

import "github.com/llehouerou/go-vp8/internal/bits"

// Mode counts.
const (
	NumYModes  = 4 // probabilities in the inter frame luma mode tree
	NumUVModes = 3 // probabilities in the chroma mode tree
	NumBModes  = 10
)

// KFYModeProbs are the fixed key frame luma mode probabilities.
//
// Source: RFC 6386 section 11.2 (kf_ymode_prob)
var KFYModeProbs = [NumYModes]bits.Probability{145, 156, 163, 128}

// KFUVModeProbs are the fixed key frame chroma mode probabilities.
//
// Source: RFC 6386 section 11.2 (kf_uv_mode_prob)
var KFUVModeProbs = [NumUVModes]bits.Probability{142, 114, 183}

// DefaultYModeProbs are the inter frame luma mode probabilities installed
// on every key frame.
//
// Source: RFC 6386 section 16.1 (ymode_prob)
var DefaultYModeProbs = [NumYModes]bits.Probability{112, 86, 140, 37}

// DefaultUVModeProbs are the inter frame chroma mode probabilities
// installed on every key frame.
//
// Source: RFC 6386 section 16.1 (uv_mode_prob)
var DefaultUVModeProbs = [NumUVModes]bits.Probability{162, 101, 204}

// BModeProbs are the fixed sub-block mode probabilities for intra
// macroblocks in inter frames.
//
// Source: RFC 6386 section 16.1 (B_mode_prob)
var BModeProbs = [NumBModes - 1]bits.Probability{120, 90, 79, 133, 87, 85, 80, 111, 151}

// SegmentIDProbsDefault is used for tree probabilities the frame header
// leaves uncoded.
const SegmentIDProbsDefault bits.Probability = 255

// ModeContexts are the MV reference tree probabilities, indexed by the
// near-MV vote count and the tree node.
//
// Source: RFC 6386 section 16.3 (vp8_mode_contexts)
var ModeContexts = [6][4]bits.Probability{
	{7, 1, 1, 143},
	{14, 18, 14, 107},
	{135, 64, 57, 68},
	{60, 56, 128, 65},
	{159, 134, 128, 34},
	{234, 188, 128, 28},
}

// MVPartitionProbs are the split MV partitioning tree probabilities.
//
// Source: RFC 6386 section 16.4 (mvpartition_probs)
var MVPartitionProbs = [3]bits.Probability{110, 111, 150}

// SubMVRefProbs are the sub-block MV reference probabilities, indexed by
// the left/above context.
//
// Source: RFC 6386 section 16.4 (sub_mv_ref_prob)
var SubMVRefProbs = [5][3]bits.Probability{
	{147, 136, 18},
	{106, 145, 1},
	{179, 121, 1},
	{223, 1, 34},
	{208, 1, 1},
}

// Split MV partition layouts: for each partitioning, the partition index
// of each of the 16 luma sub-blocks.
//
// Source: RFC 6386 section 16.4 (mbsplits)
var (
	MVPartitionCounts = [4]int{2, 2, 4, 16}

	MVPartitions = [4][16]uint8{
		{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
		{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
		{0, 0, 1, 1, 0, 0, 1, 1, 2, 2, 3, 3, 2, 2, 3, 3},
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	}
)
