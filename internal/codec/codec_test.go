package codec

import (
	"bytes"
	"testing"
)

type sample struct {
	B []uint8
	A int8
	C [3]int8
}

func TestMarshal_Deterministic(t *testing.T) {
	v := sample{B: []uint8{1, 2}, A: -3, C: [3]int8{4, -5, 6}}
	a, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("equal values marshaled differently")
	}

	var got sample
	if err := Unmarshal(a, &got); err != nil {
		t.Fatal(err)
	}
	if got.A != v.A || got.C != v.C || !bytes.Equal(got.B, v.B) {
		t.Errorf("round trip = %+v, want %+v", got, v)
	}
}

func TestStream_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for i := int8(0); i < 3; i++ {
		if err := enc.Encode(sample{A: i}); err != nil {
			t.Fatal(err)
		}
	}
	dec := NewDecoder(&buf)
	for i := int8(0); i < 3; i++ {
		var s sample
		if err := dec.Decode(&s); err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		if s.A != i {
			t.Errorf("record %d: A = %d", i, s.A)
		}
	}
}

func TestDigest_DomainSeparation(t *testing.T) {
	data := []byte("frame")
	if StateDigest(data) == PartitionDigest(data) {
		t.Error("state and partition domains produced the same digest")
	}
	if StateDigest(data) != StateDigest([]byte("frame")) {
		t.Error("digest is not deterministic")
	}
	if StateDigest(data) == StateDigest([]byte("frame2")) {
		t.Error("different inputs produced the same digest")
	}
	if n := len(StateDigest(data).String()); n != 64 {
		t.Errorf("hex digest length = %d, want 64", n)
	}
}
