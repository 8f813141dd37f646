package bits

// Reader is a boolean entropy decoder, the mirror of Writer.
//
// value holds a two-byte window into the input. Bytes past the end of the
// buffer read as zero. A bit decoded while the window holds such a byte
// latches Overrun; loading one without decoding from it does not, since the
// window always runs ahead of the bits in use.
//
// Source: RFC 6386 section 7.3 (bool_decoder)
type Reader struct {
	buffer   []byte
	pos      int    // next byte to load
	value    uint32 // big-endian window, 16 significant bits
	rng      uint32
	bitCount int // shifts since the last byte load
	overrun  bool
}

// NewReader creates a Reader over data. The first two bytes are loaded
// immediately.
func NewReader(data []byte) *Reader {
	r := &Reader{
		buffer: data,
		rng:    255,
	}
	r.value = uint32(r.nextByte())<<8 | uint32(r.nextByte())
	return r
}

// nextByte returns the next input byte, or 0 past the end.
func (r *Reader) nextByte() byte {
	if r.pos >= len(r.buffer) {
		r.pos++
		return 0
	}
	b := r.buffer[r.pos]
	r.pos++
	return b
}

// ReadBool decodes one bit with probability p of being false.
func (r *Reader) ReadBool(p Probability) bool {
	if r.pos > len(r.buffer) {
		r.overrun = true
	}
	split := 1 + (((r.rng - 1) * uint32(p)) >> 8)
	bigSplit := split << 8

	var bit bool
	if r.value >= bigSplit {
		bit = true
		r.rng -= split
		r.value -= bigSplit
	} else {
		r.rng = split
	}

	for r.rng < 128 {
		r.value <<= 1
		r.rng <<= 1
		r.bitCount++
		if r.bitCount == 8 {
			r.bitCount = 0
			r.value |= uint32(r.nextByte())
		}
	}
	return bit
}

// ReadBit decodes one bit at even probability.
func (r *Reader) ReadBit() bool {
	return r.ReadBool(Even)
}

// ReadLiteral decodes an n-bit unsigned value, most significant bit first.
func (r *Reader) ReadLiteral(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v <<= 1
		if r.ReadBit() {
			v |= 1
		}
	}
	return v
}

// ReadSigned decodes an n-bit magnitude followed by a sign bit.
func (r *Reader) ReadSigned(n int) int32 {
	v := int32(r.ReadLiteral(n))
	if r.ReadBit() {
		return -v
	}
	return v
}

// Overrun reports whether any decoded bit depended on bytes past the end of
// the buffer.
func (r *Reader) Overrun() bool {
	return r.overrun
}

// Consumed returns the number of input bytes loaded into the window,
// including any zero bytes substituted past the end.
func (r *Reader) Consumed() int {
	return r.pos
}
