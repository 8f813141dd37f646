package syntax

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/llehouerou/go-vp8/internal/bits"
	"github.com/llehouerou/go-vp8/internal/tables"
)

func randomBytes(seed int64, n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

func keyModes(cols, rows int) *FrameModes {
	h := &KeyFrameHeader{
		UpdateSegmentation: Some(UpdateSegmentation{
			UpdateMBSegmentationMap: true,
			MBSegmentationMap:       Present(SegmentProbs{Some(Unsigned[W8](100)), {}, Some(Unsigned[W8](60))}),
		}),
		ProbSkipFalse: Some(Unsigned[W8](140)),
	}
	return KeyFrameModes(h, cols, rows)
}

func interModes(cols, rows int) *FrameModes {
	h := &InterFrameHeader{
		ProbSkipFalse:     Some(Unsigned[W8](100)),
		ProbIntra:         60,
		ProbLast:          150,
		ProbGolden:        128,
		SignBiasAlternate: true,
	}
	return InterFrameModes(h, cols, rows, tables.DefaultYModeProbs, tables.DefaultUVModeProbs, tables.DefaultMVProbs)
}

// reencode checks that macroblock headers parsed from arbitrary input
// serialize to a stream that parses back to the same headers.
func reencode(t *testing.T, f *FrameModes, seed int64) []MacroblockHeader {
	t.Helper()
	mbs, err := ParseMacroblocks(bits.NewReader(randomBytes(seed, 4096)), f)
	if err != nil {
		t.Fatalf("ParseMacroblocks(random): %v", err)
	}
	w := bits.NewWriter()
	if err := EncodeMacroblocks(w, f, mbs); err != nil {
		t.Fatalf("EncodeMacroblocks: %v", err)
	}
	got, err := ParseMacroblocks(bits.NewReader(w.Finish()), f)
	if err != nil {
		t.Fatalf("ParseMacroblocks(encoded): %v", err)
	}
	for i := range mbs {
		if got[i] != mbs[i] {
			t.Fatalf("macroblock %d:\n got %+v\nwant %+v", i, got[i], mbs[i])
		}
	}
	return mbs
}

func TestMacroblocks_KeyFrameRoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		mbs := reencode(t, keyModes(11, 9), seed)
		for i, mb := range mbs {
			if mb.Ref != RefIntra {
				t.Fatalf("macroblock %d: key frame macroblock has reference %d", i, mb.Ref)
			}
		}
	}
}

func TestMacroblocks_InterFrameRoundTrip(t *testing.T) {
	var sawNew, sawSplit, sawIntra bool
	for seed := int64(1); seed <= 16; seed++ {
		for _, mb := range reencode(t, interModes(7, 5), seed) {
			switch {
			case mb.Ref == RefIntra:
				sawIntra = true
			case mb.MVMode == MVNew:
				sawNew = true
			case mb.MVMode == MVSplit:
				sawSplit = true
			}
		}
	}
	if !sawNew || !sawSplit || !sawIntra {
		t.Errorf("coverage: new=%v split=%v intra=%v, want all", sawNew, sawSplit, sawIntra)
	}
}

func TestMacroblocks_SegmentIDsAndSkip(t *testing.T) {
	f := keyModes(2, 1)
	mbs := []MacroblockHeader{
		{SegmentID: 3, Skip: true, YMode: TMPred, UVMode: HPred},
		{SegmentID: 1, YMode: BPred, UVMode: DCPred},
	}
	fillBModes(&mbs[0])
	for k := range mbs[1].BModes {
		mbs[1].BModes[k] = BMode(k % 10)
	}

	w := bits.NewWriter()
	if err := EncodeMacroblocks(w, f, mbs); err != nil {
		t.Fatal(err)
	}
	got, err := ParseMacroblocks(bits.NewReader(w.Finish()), f)
	if err != nil {
		t.Fatal(err)
	}
	for i := range mbs {
		if got[i] != mbs[i] {
			t.Errorf("macroblock %d = %+v, want %+v", i, got[i], mbs[i])
		}
	}
}

func TestMacroblocks_NoSegmentMapUpdate(t *testing.T) {
	f := KeyFrameModes(&KeyFrameHeader{}, 1, 1)
	mb := MacroblockHeader{SegmentID: 2, YMode: DCPred}
	fillBModes(&mb)

	w := bits.NewWriter()
	if err := EncodeMacroblocks(w, f, []MacroblockHeader{mb}); err != nil {
		t.Fatal(err)
	}
	got, err := ParseMacroblocks(bits.NewReader(w.Finish()), f)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].SegmentID != 0 {
		t.Errorf("SegmentID = %d, want 0 when the map is not coded", got[0].SegmentID)
	}
}

func TestMacroblocks_NewMVAgainstNeighbour(t *testing.T) {
	f := interModes(2, 1)
	left := MacroblockHeader{Ref: RefLast, MVMode: MVNew, MV: MotionVector{Row: 8, Col: -24}}
	right := MacroblockHeader{Ref: RefLast, MVMode: MVNearest}

	// The right macroblock's nearest vector is its left neighbour's.
	mbs := []MacroblockHeader{left, right}
	near := findNearMVs(mbs, 1, 0, f, RefLast)
	if near.nearest != left.MV {
		t.Fatalf("nearest = %+v, want %+v", near.nearest, left.MV)
	}
	mbs[1].MV = near.nearest
	for k := range mbs[0].SubMVs {
		mbs[0].SubMVs[k] = mbs[0].MV
		mbs[1].SubMVs[k] = mbs[1].MV
	}

	w := bits.NewWriter()
	if err := EncodeMacroblocks(w, f, mbs); err != nil {
		t.Fatal(err)
	}
	got, err := ParseMacroblocks(bits.NewReader(w.Finish()), f)
	if err != nil {
		t.Fatal(err)
	}
	if got[1].MV != left.MV {
		t.Errorf("decoded nearest MV = %+v, want %+v", got[1].MV, left.MV)
	}
}

func TestMacroblocks_SplitQuarters(t *testing.T) {
	f := interModes(1, 1)
	mb := MacroblockHeader{Ref: RefGolden, MVMode: MVSplit, Split: Split8x8}
	vectors := [4]MotionVector{{Row: 4, Col: 4}, {}, {Row: -6, Col: 2}, {Row: -6, Col: 2}}
	mb.SubMVRefs = [16]SubMVRef{SubMVNew, SubMVZero, SubMVNew, SubMVLeft}
	for k, part := range tables.MVPartitions[Split8x8] {
		mb.SubMVs[k] = vectors[part]
	}
	mb.MV = mb.SubMVs[15]

	w := bits.NewWriter()
	if err := EncodeMacroblocks(w, f, []MacroblockHeader{mb}); err != nil {
		t.Fatal(err)
	}
	got, err := ParseMacroblocks(bits.NewReader(w.Finish()), f)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != mb {
		t.Errorf("split macroblock:\n got %+v\nwant %+v", got[0], mb)
	}
}

func TestMacroblocks_EncodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		modes *FrameModes
		mb    MacroblockHeader
		want  error
	}{
		{
			name:  "segment id out of range",
			modes: keyModes(1, 1),
			mb:    MacroblockHeader{SegmentID: 4},
			want:  ErrSegmentID,
		},
		{
			name:  "inter macroblock in key frame",
			modes: keyModes(1, 1),
			mb:    MacroblockHeader{Ref: RefLast},
			want:  ErrInvalidMode,
		},
		{
			name:  "bad implied sub-block modes",
			modes: keyModes(1, 1),
			mb:    MacroblockHeader{YMode: VPred},
			want:  ErrInvalidMode,
		},
		{
			name:  "zero mode with a vector",
			modes: interModes(1, 1),
			mb:    MacroblockHeader{Ref: RefLast, MVMode: MVZero, MV: MotionVector{Row: 2}},
			want:  ErrMotionVector,
		},
		{
			name:  "odd new vector",
			modes: interModes(1, 1),
			mb:    MacroblockHeader{Ref: RefLast, MVMode: MVNew, MV: MotionVector{Col: 3}},
			want:  ErrMotionVector,
		},
		{
			name:  "new vector beyond the long form",
			modes: interModes(1, 1),
			mb:    MacroblockHeader{Ref: RefLast, MVMode: MVNew, MV: MotionVector{Row: 2048}},
			want:  ErrMotionVector,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EncodeMacroblocks(bits.NewWriter(), tt.modes, []MacroblockHeader{tt.mb})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMacroblocks_CountMismatch(t *testing.T) {
	err := EncodeMacroblocks(bits.NewWriter(), keyModes(2, 2), make([]MacroblockHeader, 3))
	if !errors.Is(err, ErrMacroblockCount) {
		t.Errorf("err = %v, want ErrMacroblockCount", err)
	}
}
