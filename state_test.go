package vp8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-vp8/internal/codec"
	"github.com/llehouerou/go-vp8/internal/syntax"
)

func sampleState() DecoderState {
	s := newDecoderState(&syntax.KeyFrameHeader{}, testWidth, testHeight)
	s.Probabilities.Coefficients[1][1][1][1] = 9
	s.Probabilities.MotionVector[1][18] = 200
	s.Segmentation.IDs[10] = 2
	s.Adjustments.AbsoluteSegmentAdjustments = true
	s.Adjustments.SegmentFilter[3] = -63
	s.Adjustments.ModeFilter[0] = 17
	return s
}

func TestDecoderState_CheckpointRoundTrip(t *testing.T) {
	want := sampleState()
	data, err := want.MarshalBinary()
	require.NoError(t, err)

	var got DecoderState
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, want, got)
	assert.Equal(t, want.Fingerprint(), got.Fingerprint())

	again, err := got.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again, "checkpoint encoding is not deterministic")
}

func TestDecoderState_CheckpointLayout(t *testing.T) {
	data, err := sampleState().MarshalBinary()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, codec.Unmarshal(data, &raw))
	assert.EqualValues(t, stateVersion, raw["v"])
	fields, ok := raw["s"].(map[any]any)
	require.True(t, ok, "state is encoded as %T, want a map of fields", raw["s"])
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "Probabilities")
	assert.Contains(t, fields, "Segmentation")
	assert.Contains(t, fields, "Adjustments")
}

func TestDecoderState_Fingerprint(t *testing.T) {
	a := sampleState()
	b := sampleState()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Segmentation.IDs[0] = 1
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestDecoderState_UnmarshalErrors(t *testing.T) {
	wrongVersion, err := codec.Marshal(checkpoint{Version: stateVersion + 1, State: stateFields(sampleState())})
	require.NoError(t, err)

	short := sampleState()
	short.Segmentation.IDs = short.Segmentation.IDs[:5]
	shortMap, err := codec.Marshal(checkpoint{Version: stateVersion, State: stateFields(short)})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte{0xff, 0x00}},
		{"wrong version", wrongVersion},
		{"map size mismatch", shortMap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState()
			before := s.Fingerprint()
			err := s.UnmarshalBinary(tt.data)
			assert.ErrorIs(t, err, ErrInvalidState)
			assert.Equal(t, before, s.Fingerprint(), "failed unmarshal modified the state")
		})
	}
}

func TestDecoderState_Clone(t *testing.T) {
	a := sampleState()
	b := a.Clone()
	b.Segmentation.IDs[10] = 0
	b.Probabilities.YMode[0] = 1
	assert.Equal(t, uint8(2), a.Segmentation.IDs[10])
	assert.Equal(t, DefaultProbabilityTables().YMode, a.Probabilities.YMode)
}

func TestNewDecoderState_KeyFrameDeltas(t *testing.T) {
	h := &syntax.KeyFrameHeader{
		ModeLFAdjustments: syntax.Some(syntax.Some(syntax.ModeRefLFDeltaUpdate{
			RefUpdate: [4]syntax.Flagged[syntax.Signed[syntax.W6]]{syntax.Some(syntax.Signed[syntax.W6](2))},
		})),
	}
	s := newDecoderState(h, 17, 33)
	assert.Equal(t, int8(2), s.Adjustments.RefFilter[0])
	assert.Equal(t, 2, s.Segmentation.Cols)
	assert.Equal(t, 3, s.Segmentation.Rows)
	assert.Len(t, s.Segmentation.IDs, 6)
	assert.Equal(t, DefaultProbabilityTables(), s.Probabilities)
}
