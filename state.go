package vp8

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/codec"
)

// DecoderState is the codec state that persists between frames: what a
// decoder replaying the produced stream would hold after each frame.
//
// A key frame replaces it wholesale. An inter frame mutates it in place.
type DecoderState struct {
	Probabilities ProbabilityTables
	Segmentation  SegmentationMap
	Adjustments   QuantizerFilterAdjustments
}

// newDecoderState returns the state a key frame starts from: default
// tables, a cleared map and the header's own adjustments over zero.
func newDecoderState(h adjustmentHeader, width, height uint16) DecoderState {
	s := DecoderState{
		Probabilities: DefaultProbabilityTables(),
		Segmentation:  NewSegmentationMap(width, height),
	}
	s.Adjustments.update(h)
	return s
}

// Clone returns a copy that shares no storage with s.
func (s DecoderState) Clone() DecoderState {
	s.Segmentation = s.Segmentation.clone()
	return s
}

// stateVersion tags the checkpoint layout.
const stateVersion = 1

// stateFields has DecoderState's layout without its methods, so the
// codec encodes the fields instead of calling MarshalBinary again.
type stateFields DecoderState

type checkpoint struct {
	Version int         `cbor:"v"`
	State   stateFields `cbor:"s"`
}

// MarshalBinary encodes s as deterministic CBOR.
func (s DecoderState) MarshalBinary() ([]byte, error) {
	return codec.Marshal(checkpoint{Version: stateVersion, State: stateFields(s)})
}

// UnmarshalBinary decodes a checkpoint produced by MarshalBinary.
func (s *DecoderState) UnmarshalBinary(data []byte) error {
	var c checkpoint
	if err := codec.Unmarshal(data, &c); err != nil {
		return errors.Wrap(ErrInvalidState, err.Error())
	}
	if c.Version != stateVersion {
		return errors.Wrapf(ErrInvalidState, "checkpoint version %d", c.Version)
	}
	if err := c.State.Segmentation.validate(); err != nil {
		return err
	}
	*s = DecoderState(c.State)
	return nil
}

// Digest is a 32-byte BLAKE3 digest.
type Digest = codec.Digest

// Fingerprint returns a digest of s. Equal states have equal fingerprints.
func (s DecoderState) Fingerprint() Digest {
	data, err := s.MarshalBinary()
	if err != nil {
		panic("vp8: encoding decoder state: " + err.Error())
	}
	return codec.StateDigest(data)
}
