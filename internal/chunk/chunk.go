// Package chunk parses and builds the uncompressed framing of a VP8 data
// chunk: the frame tag, the key frame start code and dimensions, and the
// partition boundaries.
//
// Source: RFC 6386 sections 9.1 and 9.5
package chunk

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Framing constants.
const (
	TagSize         = 3
	KeyFrameExtra   = 7 // start code + width + height
	PartitionSize   = 3 // size of each DCT partition length field
	MaxPartitions   = 8
	maxFirstPartLen = 1<<19 - 1
)

// StartCode is the key frame start code.
var StartCode = [3]byte{0x9d, 0x01, 0x2a}

// Chunk is one frame's framing, with slices into the original buffer.
type Chunk struct {
	KeyFrame  bool
	Version   uint8
	ShowFrame bool

	// Key frames only.
	Width      uint16
	Height     uint16
	HorizScale uint8
	VertScale  uint8

	FirstPartition []byte

	// Rest is everything after the first partition: the DCT partition
	// sizes followed by the partitions.
	Rest []byte
}

// Parse validates the framing of data. Key frame dimensions must equal
// width and height.
func Parse(data []byte, width, height uint16) (*Chunk, error) {
	if len(data) < TagSize {
		return nil, errors.Wrapf(ErrChunkTooSmall, "%d bytes", len(data))
	}
	tag := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
	c := &Chunk{
		KeyFrame:  tag&1 == 0,
		Version:   uint8(tag>>1) & 7,
		ShowFrame: tag>>4&1 == 1,
	}
	size := int(tag >> 5)
	body := data[TagSize:]

	if c.KeyFrame {
		if len(body) < KeyFrameExtra {
			return nil, errors.Wrapf(ErrChunkTooSmall, "key frame with %d bytes", len(data))
		}
		if body[0] != StartCode[0] || body[1] != StartCode[1] || body[2] != StartCode[2] {
			return nil, errors.Wrapf(ErrStartCode, "% x", body[:3])
		}
		w := binary.LittleEndian.Uint16(body[3:5])
		h := binary.LittleEndian.Uint16(body[5:7])
		c.Width, c.HorizScale = w&0x3fff, uint8(w>>14)
		c.Height, c.VertScale = h&0x3fff, uint8(h>>14)
		if c.Width != width || c.Height != height {
			return nil, errors.Wrapf(ErrDimensionMismatch, "chunk %dx%d, stream %dx%d",
				c.Width, c.Height, width, height)
		}
		body = body[KeyFrameExtra:]
	}

	if size > len(body) {
		return nil, errors.Wrapf(ErrTruncatedPartition, "first partition %d bytes, %d available", size, len(body))
	}
	c.FirstPartition = body[:size]
	c.Rest = body[size:]
	return c, nil
}

// Partitions splits Rest into count DCT partitions. Every partition but the
// last is preceded by a 3-byte little-endian length; the last one takes the
// remainder.
func (c *Chunk) Partitions(count int) ([][]byte, error) {
	if count < 1 || count > MaxPartitions {
		return nil, errors.Wrapf(ErrPartitionCount, "%d", count)
	}
	sizes := (count - 1) * PartitionSize
	if len(c.Rest) < sizes {
		return nil, errors.Wrapf(ErrTruncatedPartition, "%d partition sizes, %d bytes", count-1, len(c.Rest))
	}
	data := c.Rest[sizes:]
	parts := make([][]byte, count)
	for i := 0; i < count-1; i++ {
		b := c.Rest[i*PartitionSize:]
		n := int(b[0]) | int(b[1])<<8 | int(b[2])<<16
		if n > len(data) {
			return nil, errors.Wrapf(ErrTruncatedPartition, "partition %d: %d bytes, %d available", i, n, len(data))
		}
		parts[i], data = data[:n], data[n:]
	}
	parts[count-1] = data
	return parts, nil
}

// Spec describes a chunk to Build.
type Spec struct {
	KeyFrame       bool
	Version        uint8
	ShowFrame      bool
	Width          uint16
	Height         uint16
	FirstPartition []byte
	Partitions     [][]byte
}

// Build assembles a chunk from its parts. It panics if the first partition
// does not fit the frame tag's 19-bit size field.
func Build(s Spec) []byte {
	if len(s.FirstPartition) > maxFirstPartLen {
		panic("chunk: first partition too large for the frame tag")
	}
	tag := uint32(len(s.FirstPartition))<<5 | uint32(s.Version&7)<<1
	if !s.KeyFrame {
		tag |= 1
	}
	if s.ShowFrame {
		tag |= 1 << 4
	}

	out := []byte{byte(tag), byte(tag >> 8), byte(tag >> 16)}
	if s.KeyFrame {
		out = append(out, StartCode[:]...)
		out = binary.LittleEndian.AppendUint16(out, s.Width&0x3fff)
		out = binary.LittleEndian.AppendUint16(out, s.Height&0x3fff)
	}
	out = append(out, s.FirstPartition...)
	for i := 0; i+1 < len(s.Partitions); i++ {
		n := len(s.Partitions[i])
		out = append(out, byte(n), byte(n>>8), byte(n>>16))
	}
	for _, p := range s.Partitions {
		out = append(out, p...)
	}
	return out
}
