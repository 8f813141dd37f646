package syntax

import (
	"errors"
	"testing"

	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/tables"
)

func encodeKey(t *testing.T, h *KeyFrameHeader) []byte {
	t.Helper()
	w := bits.NewWriter()
	if err := h.Encode(w); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return w.Finish()
}

func encodeInter(t *testing.T, h *InterFrameHeader) []byte {
	t.Helper()
	w := bits.NewWriter()
	if err := h.Encode(w); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return w.Finish()
}

func sampleKeyFrameHeader() *KeyFrameHeader {
	h := &KeyFrameHeader{
		ColorSpace:   false,
		ClampingType: true,
		UpdateSegmentation: Some(UpdateSegmentation{
			UpdateMBSegmentationMap: true,
			SegmentFeatureData: Some(SegmentFeatureData{
				SegmentFeatureMode: true,
				QuantizerUpdate: [4]Flagged[Signed[W7]]{
					Some(Signed[W7](-12)), {}, Some(Signed[W7](40)), {},
				},
				LoopFilterUpdate: [4]Flagged[Signed[W6]]{
					{}, Some(Signed[W6](5)), {}, Some(Signed[W6](-63)),
				},
			}),
			MBSegmentationMap: Present(SegmentProbs{
				Some(Unsigned[W8](120)), {}, Some(Unsigned[W8](30)),
			}),
		}),
		FilterType:      false,
		LoopFilterLevel: 33,
		SharpnessLevel:  4,
		ModeLFAdjustments: Some(Some(ModeRefLFDeltaUpdate{
			RefUpdate:  [4]Flagged[Signed[W6]]{Some(Signed[W6](2)), {}, Some(Signed[W6](-2)), {}},
			ModeUpdate: [4]Flagged[Signed[W6]]{{}, {}, {}, Some(Signed[W6](7))},
		})),
		Log2NumPartitions: 2,
		QuantIndices: QuantIndices{
			YACQI:     60,
			Y2DCDelta: Some(Signed[W4](-3)),
			UVACDelta: Some(Signed[W4](15)),
		},
		RefreshEntropyProbs: true,
		ProbSkipFalse:       Some(Unsigned[W8](200)),
	}
	h.TokenProbUpdate.Set(0, 1, 0, 0, 99)
	h.TokenProbUpdate.Set(3, 7, 2, 10, 1)
	return h
}

func TestKeyFrameHeader_RoundTrip(t *testing.T) {
	want := sampleKeyFrameHeader()
	got, err := ParseKeyFrameHeader(bits.NewReader(encodeKey(t, want)))
	if err != nil {
		t.Fatalf("ParseKeyFrameHeader: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, *want)
	}
}

func TestKeyFrameHeader_Deterministic(t *testing.T) {
	a := encodeKey(t, sampleKeyFrameHeader())
	b := encodeKey(t, sampleKeyFrameHeader())
	if string(a) != string(b) {
		t.Error("equal headers serialized to different bytes")
	}
}

func TestKeyFrameHeader_ConstructionOrderIrrelevant(t *testing.T) {
	a := &KeyFrameHeader{}
	a.ProbSkipFalse = Some(Unsigned[W8](17))
	a.LoopFilterLevel = 9
	a.ColorSpace = true
	a.QuantIndices.YACQI = 4

	b := &KeyFrameHeader{}
	b.QuantIndices.YACQI = 4
	b.ColorSpace = true
	b.LoopFilterLevel = 9
	b.ProbSkipFalse = Some(Unsigned[W8](17))

	if string(encodeKey(t, a)) != string(encodeKey(t, b)) {
		t.Error("field assignment order changed the serialization")
	}
}

func TestKeyFrameHeader_EmptyLayout(t *testing.T) {
	// An all-default header is a run of zero bits in bitstream order, with
	// every coefficient update flag at its own update probability.
	want := bits.NewWriter()
	want.PutBit(false) // color_space
	want.PutBit(false) // clamping_type
	want.PutBit(false) // segmentation_enabled
	want.PutBit(false) // filter_type
	want.PutLiteral(0, 6)
	want.PutLiteral(0, 3)
	want.PutBit(false) // loop_filter_adj_enable
	want.PutLiteral(0, 2)
	want.PutLiteral(0, 7)
	for i := 0; i < 5; i++ {
		want.PutBit(false)
	}
	want.PutBit(false) // refresh_entropy_probs
	for i := range tables.CoeffUpdateProbs {
		for j := range tables.CoeffUpdateProbs[i] {
			for k := range tables.CoeffUpdateProbs[i][j] {
				for _, p := range tables.CoeffUpdateProbs[i][j][k] {
					want.PutBool(false, p)
				}
			}
		}
	}
	want.PutBit(false) // mb_no_coeff_skip

	if got := encodeKey(t, &KeyFrameHeader{}); string(got) != string(want.Finish()) {
		t.Error("empty key frame header does not match the expected bit layout")
	}
}

func TestKeyFrameHeader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header func() *KeyFrameHeader
		want   error
	}{
		{
			name: "loop filter level too wide",
			header: func() *KeyFrameHeader {
				return &KeyFrameHeader{LoopFilterLevel: 64}
			},
			want: ErrValueOutOfRange,
		},
		{
			name: "quantizer delta too wide",
			header: func() *KeyFrameHeader {
				h := &KeyFrameHeader{}
				h.QuantIndices.YDCDelta = Some(Signed[W4](-16))
				return h
			},
			want: ErrValueOutOfRange,
		},
		{
			name: "segment probabilities without map update",
			header: func() *KeyFrameHeader {
				return &KeyFrameHeader{UpdateSegmentation: Some(UpdateSegmentation{
					MBSegmentationMap: Present(SegmentProbs{}),
				})}
			},
			want: ErrInconsistentOptional,
		},
		{
			name: "map update without segment probabilities",
			header: func() *KeyFrameHeader {
				return &KeyFrameHeader{UpdateSegmentation: Some(UpdateSegmentation{
					UpdateMBSegmentationMap: true,
				})}
			},
			want: ErrInconsistentOptional,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.header().Encode(bits.NewWriter())
			if !errors.Is(err, tt.want) {
				t.Errorf("Encode() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseKeyFrameHeader_Truncated(t *testing.T) {
	data := encodeKey(t, sampleKeyFrameHeader())
	_, err := ParseKeyFrameHeader(bits.NewReader(data[:len(data)/4]))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func sampleInterFrameHeader() *InterFrameHeader {
	h := &InterFrameHeader{
		FilterType:            true,
		LoopFilterLevel:       20,
		SharpnessLevel:        1,
		Log2NumPartitions:     1,
		QuantIndices:          QuantIndices{YACQI: 127, YDCDelta: Some(Signed[W4](1))},
		RefreshGoldenFrame:    true,
		RefreshAlternateFrame: false,
		CopyBufferToAlternate: Present(Unsigned[W2](2)),
		SignBiasGolden:        false,
		SignBiasAlternate:     true,
		RefreshEntropyProbs:   false,
		RefreshLast:           true,
		ProbSkipFalse:         Some(Unsigned[W8](230)),
		ProbIntra:             180,
		ProbLast:              140,
		ProbGolden:            90,
		IntraYModeProbs:       Some(YModeProbs{1, 2, 3, 4}),
		IntraUVModeProbs:      Some(UVModeProbs{250, 128, 7}),
	}
	h.TokenProbUpdate.Set(1, 2, 1, 5, 77)
	h.MVProbUpdate.Set(0, 0, 100)
	h.MVProbUpdate.Set(1, 9, 0)
	return h
}

func TestInterFrameHeader_RoundTrip(t *testing.T) {
	want := sampleInterFrameHeader()
	got, err := ParseInterFrameHeader(bits.NewReader(encodeInter(t, want)))
	if err != nil {
		t.Fatalf("ParseInterFrameHeader: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, *want)
	}
}

func TestInterFrameHeader_CopyBufferConsistency(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(h *InterFrameHeader)
		wantErr bool
	}{
		{"consistent", func(h *InterFrameHeader) {}, false},
		{"golden copy with golden refresh", func(h *InterFrameHeader) {
			h.CopyBufferToGolden = Present(Unsigned[W2](1))
		}, true},
		{"missing alternate copy", func(h *InterFrameHeader) {
			h.CopyBufferToAlternate = Optional[Unsigned[W2]]{}
		}, true},
		{"copy value too wide", func(h *InterFrameHeader) {
			h.CopyBufferToAlternate = Present(Unsigned[W2](4))
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := sampleInterFrameHeader()
			tt.modify(h)
			err := h.Encode(bits.NewWriter())
			if (err != nil) != tt.wantErr {
				t.Errorf("Encode() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHeaders_LFDeltaHeader(t *testing.T) {
	h := sampleKeyFrameHeader()
	d, ok := h.LFDeltaHeader()
	if !ok {
		t.Fatal("LFDeltaHeader() reported no update")
	}
	if v, _ := d.ModeUpdate[3].Get(); v != 7 {
		t.Errorf("ModeUpdate[3] = %d, want 7", v)
	}

	// Adjustments enabled without an update carries no deltas.
	h.ModeLFAdjustments = Some(Flagged[ModeRefLFDeltaUpdate]{})
	if _, ok := h.LFDeltaHeader(); ok {
		t.Error("LFDeltaHeader() reported an update for an empty inner flag")
	}
}
