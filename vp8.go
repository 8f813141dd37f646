// vp8.go
package vp8

// State is the position of an Encoder in its stream.
type State uint8

// Session states.
const (
	AwaitingFirstFrame State = 0 // no key frame seen yet
	Ready              State = 1 // state holds a key frame's context
)

func (s State) String() string {
	switch s {
	case AwaitingFirstFrame:
		return "awaiting first frame"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// MacroblockSize is the width and height of a macroblock in pixels.
const MacroblockSize = 16

// MaxDimension is the largest frame width or height a key frame can carry.
const MaxDimension = 1<<14 - 1

// macroblockDims returns the frame size in macroblocks.
func macroblockDims(width, height uint16) (cols, rows int) {
	return (int(width) + MacroblockSize - 1) / MacroblockSize,
		(int(height) + MacroblockSize - 1) / MacroblockSize
}
