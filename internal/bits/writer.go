// internal/bits/writer.go
package bits

// Writer is a boolean entropy encoder.
//
// Each call to PutBool narrows the interval [bottom, bottom+range) according
// to the probability of a zero bit. Output bytes are produced as the
// interval is renormalized. A carry out of bottom is propagated into bytes
// already written.
//
// Source: RFC 6386 section 7.3 (bool_encoder)
type Writer struct {
	buf      []byte
	rng      uint32 // always in [128, 255] between calls
	bottom   uint32
	bitCount int // shifts left before the next output byte
	finished bool
}

// NewWriter returns a Writer ready to accept bits.
func NewWriter() *Writer {
	return &Writer{
		rng:      255,
		bitCount: 24,
	}
}

// PutBool encodes one bit. p is the probability, scaled to 256, that the
// bit is false.
func (w *Writer) PutBool(bit bool, p Probability) {
	if w.finished {
		panic(InvariantError("bits: write after Finish"))
	}

	split := 1 + (((w.rng - 1) * uint32(p)) >> 8)
	if bit {
		w.bottom += split
		w.rng -= split
	} else {
		w.rng = split
	}

	for w.rng < 128 {
		w.rng <<= 1
		if w.bottom&(1<<31) != 0 {
			w.carry()
		}
		w.bottom <<= 1
		w.bitCount--
		if w.bitCount == 0 {
			w.buf = append(w.buf, byte(w.bottom>>24))
			w.bottom &= (1 << 24) - 1
			w.bitCount = 8
		}
	}
}

// carry adds one to the bytes already written, rolling 0xFF bytes over.
func (w *Writer) carry() {
	i := len(w.buf) - 1
	for i >= 0 && w.buf[i] == 0xFF {
		w.buf[i] = 0
		i--
	}
	if i < 0 {
		panic(InvariantError("bits: carry with no preceding byte"))
	}
	w.buf[i]++
}

// PutBit encodes one bit at even probability.
func (w *Writer) PutBit(bit bool) {
	w.PutBool(bit, Even)
}

// PutLiteral encodes the low n bits of v, most significant first, at even
// probability.
func (w *Writer) PutLiteral(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.PutBit(v&(1<<uint(i)) != 0)
	}
}

// PutSigned encodes the magnitude of v in n bits followed by a sign bit.
func (w *Writer) PutSigned(v int32, n int) {
	if v < 0 {
		w.PutLiteral(uint32(-v), n)
		w.PutBit(true)
		return
	}
	w.PutLiteral(uint32(v), n)
	w.PutBit(false)
}

// Len returns the number of bytes emitted so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Finish flushes the encoder and returns the encoded bytes.
// The Writer cannot be used after Finish.
//
// The interval is flushed by encoding 32 zero bits at even probability,
// which leaves enough trailing bytes for a decoder's look-ahead.
func (w *Writer) Finish() []byte {
	for i := 0; i < 32; i++ {
		w.PutBit(false)
	}
	w.finished = true
	return w.buf
}
