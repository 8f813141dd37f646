package chunk

import (
	"bytes"
	"errors"
	"testing"
)

func TestParse_KeyFrame(t *testing.T) {
	first := []byte{1, 2, 3, 4, 5}
	data := Build(Spec{
		KeyFrame:       true,
		Version:        2,
		ShowFrame:      true,
		Width:          176,
		Height:         144,
		FirstPartition: first,
		Partitions:     [][]byte{{9, 9}},
	})

	c, err := Parse(data, 176, 144)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !c.KeyFrame || c.Version != 2 || !c.ShowFrame {
		t.Errorf("tag = key %v version %d show %v, want true 2 true", c.KeyFrame, c.Version, c.ShowFrame)
	}
	if c.Width != 176 || c.Height != 144 {
		t.Errorf("dimensions = %dx%d, want 176x144", c.Width, c.Height)
	}
	if !bytes.Equal(c.FirstPartition, first) {
		t.Errorf("FirstPartition = %v, want %v", c.FirstPartition, first)
	}
	if !bytes.Equal(c.Rest, []byte{9, 9}) {
		t.Errorf("Rest = %v, want [9 9]", c.Rest)
	}
}

func TestParse_InterFrame(t *testing.T) {
	data := Build(Spec{FirstPartition: []byte{7}})
	c, err := Parse(data, 176, 144)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.KeyFrame || c.ShowFrame {
		t.Errorf("KeyFrame = %v ShowFrame = %v, want false false", c.KeyFrame, c.ShowFrame)
	}
	if c.Width != 0 || c.Height != 0 {
		t.Errorf("inter frame carries dimensions %dx%d", c.Width, c.Height)
	}
	if !bytes.Equal(c.FirstPartition, []byte{7}) || len(c.Rest) != 0 {
		t.Errorf("partitions = %v / %v", c.FirstPartition, c.Rest)
	}
}

func TestParse_TagLayout(t *testing.T) {
	// Key frame, version 0, shown, first partition of 0x1234 bytes.
	tag := uint32(0x1234)<<5 | 1<<4
	data := []byte{byte(tag), byte(tag >> 8), byte(tag >> 16)}
	data = append(data, 0x9d, 0x01, 0x2a, 0x10, 0x00, 0x10, 0x00)
	data = append(data, make([]byte, 0x1234)...)

	c, err := Parse(data, 16, 16)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.FirstPartition) != 0x1234 {
		t.Errorf("first partition = %d bytes, want %d", len(c.FirstPartition), 0x1234)
	}
	if !bytes.Equal(Build(Spec{KeyFrame: true, ShowFrame: true, Width: 16, Height: 16,
		FirstPartition: make([]byte, 0x1234)}), data) {
		t.Error("Build does not reproduce the hand-assembled chunk")
	}
}

func TestParse_Scale(t *testing.T) {
	data := Build(Spec{KeyFrame: true, Width: 32, Height: 48})
	data[7] |= 0x40 // horizontal scale 1
	data[9] |= 0xc0 // vertical scale 3
	c, err := Parse(data, 32, 48)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.HorizScale != 1 || c.VertScale != 3 {
		t.Errorf("scale = %d,%d, want 1,3", c.HorizScale, c.VertScale)
	}
}

func TestParse_Errors(t *testing.T) {
	key := Build(Spec{KeyFrame: true, Width: 176, Height: 144, FirstPartition: []byte{1, 2, 3}})
	badStart := append([]byte(nil), key...)
	badStart[3] = 0x9e

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrChunkTooSmall},
		{"short tag", []byte{0, 0}, ErrChunkTooSmall},
		{"short key frame", key[:8], ErrChunkTooSmall},
		{"bad start code", badStart, ErrStartCode},
		{"dimension mismatch", Build(Spec{KeyFrame: true, Width: 352, Height: 288}), ErrDimensionMismatch},
		{"truncated first partition", key[:len(key)-1], ErrTruncatedPartition},
		{"truncated inter partition", Build(Spec{FirstPartition: []byte{1, 2}})[:4], ErrTruncatedPartition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data, 176, 144)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChunk_Partitions(t *testing.T) {
	parts := [][]byte{{1}, {2, 2}, {}, {4, 4, 4, 4}}
	data := Build(Spec{FirstPartition: []byte{0}, Partitions: parts})
	c, err := Parse(data, 0, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got, err := c.Partitions(4)
	if err != nil {
		t.Fatalf("Partitions: %v", err)
	}
	for i := range parts {
		if !bytes.Equal(got[i], parts[i]) {
			t.Errorf("partition %d = %v, want %v", i, got[i], parts[i])
		}
	}

	if _, err := c.Partitions(0); !errors.Is(err, ErrPartitionCount) {
		t.Errorf("Partitions(0) err = %v, want ErrPartitionCount", err)
	}
	if _, err := c.Partitions(8); !errors.Is(err, ErrTruncatedPartition) {
		t.Errorf("Partitions(8) err = %v, want ErrTruncatedPartition", err)
	}
}
