package tables

import "github.com/llehouerou/go-vp8/internal/bits"

// Motion vector probability layout, per component.
const (
	NumMVProbs = 19

	MVIsShort   = 0
	MVSign      = 1
	MVShort     = 2 // 7 short tree probabilities
	MVLong      = 9 // 10 long bit probabilities
	MVLongBits  = 10
	MVShortTree = 8 // values below this use the short tree
)

// DefaultMVProbs are the motion vector probabilities installed on every
// key frame. Row component first, then column.
//
// Source: RFC 6386 section 17.2 (default_mv_context)
var DefaultMVProbs = [2][NumMVProbs]bits.Probability{
	{162, 128, 225, 146, 172, 147, 214, 39, 156, 128, 129, 132, 75, 145, 178, 206, 239, 254, 254},
	{164, 128, 204, 170, 119, 235, 140, 230, 228, 128, 130, 130, 74, 148, 180, 203, 236, 254, 254},
}

// MVUpdateProbs are the probabilities that each motion vector probability
// is updated in an inter frame header.
//
// Source: RFC 6386 section 17.2 (vp8_mv_update_probs)
var MVUpdateProbs = [2][NumMVProbs]bits.Probability{
	{237, 246, 253, 253, 254, 254, 254, 254, 254, 254, 254, 254, 254, 254, 250, 250, 252, 254, 254},
	{231, 243, 245, 253, 254, 254, 254, 254, 254, 254, 254, 254, 254, 254, 251, 251, 254, 254, 254},
}
