// internal/syntax/codable.go
package syntax

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/bits"
)

// walk tracks the enumeration indices enclosing the element being coded,
// outermost first.
type walk struct {
	path []int
}

func (w *walk) push(i int) { w.path = append(w.path, i) }
func (w *walk) pop()       { w.path = w.path[:len(w.path)-1] }

// encoder carries a Writer through a schema walk. The first schema
// violation is latched in err; later fields are still visited but the
// caller must discard the output.
type encoder struct {
	walk
	w   *bits.Writer
	err error
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// decoder carries a Reader through a schema walk.
type decoder struct {
	walk
	r *bits.Reader
}

// element is implemented by every node of the header schema. The method
// set is unexported so the schema is closed to this package.
type element[T any] interface {
	encode(e *encoder)
	decode(d *decoder) T
}

// Width is a fixed bit width carried in the type of Unsigned and Signed.
type Width interface {
	bits() int
}

// Field widths used by the frame headers.
type (
	W1 struct{}
	W2 struct{}
	W3 struct{}
	W4 struct{}
	W6 struct{}
	W7 struct{}
	W8 struct{}
)

func (W1) bits() int { return 1 }
func (W2) bits() int { return 2 }
func (W3) bits() int { return 3 }
func (W4) bits() int { return 4 }
func (W6) bits() int { return 6 }
func (W7) bits() int { return 7 }
func (W8) bits() int { return 8 }

func widthOf[W Width]() int {
	var w W
	return w.bits()
}

// Flag is a single bit at even probability.
type Flag bool

func (f Flag) encode(e *encoder) {
	e.w.PutBit(bool(f))
}

func (Flag) decode(d *decoder) Flag {
	return Flag(d.r.ReadBit())
}

// Unsigned is a W-bit unsigned literal, most significant bit first.
// Valid values are 0 through 2^W-1.
type Unsigned[W Width] uint32

func (u Unsigned[W]) encode(e *encoder) {
	n := widthOf[W]()
	if uint64(u) >= 1<<uint(n) {
		e.fail(errors.Wrapf(ErrValueOutOfRange, "%d does not fit in %d unsigned bits", uint32(u), n))
		return
	}
	e.w.PutLiteral(uint32(u), n)
}

func (Unsigned[W]) decode(d *decoder) Unsigned[W] {
	return Unsigned[W](d.r.ReadLiteral(widthOf[W]()))
}

// Signed is a W-bit magnitude followed by a sign bit, set for negative
// values. Valid values are -(2^W-1) through 2^W-1. Negative zero decodes
// as zero.
type Signed[W Width] int32

func (s Signed[W]) encode(e *encoder) {
	n := widthOf[W]()
	limit := int64(1)<<uint(n) - 1
	if v := int64(s); v > limit || v < -limit {
		e.fail(errors.Wrapf(ErrValueOutOfRange, "%d does not fit in %d magnitude bits", int32(s), n))
		return
	}
	e.w.PutSigned(int32(s), n)
}

func (Signed[W]) decode(d *decoder) Signed[W] {
	return Signed[W](d.r.ReadSigned(widthOf[W]()))
}

// Flagged is a value preceded by a presence bit. The value is coded only
// when Present is set.
type Flagged[T element[T]] struct {
	Value   T
	Present bool
}

// Some returns a present Flagged value.
func Some[T element[T]](v T) Flagged[T] {
	return Flagged[T]{Value: v, Present: true}
}

// Get returns the value and whether it is present. An absent value reads
// as the zero value.
func (f Flagged[T]) Get() (T, bool) {
	if !f.Present {
		var zero T
		return zero, false
	}
	return f.Value, true
}

func (f Flagged[T]) encode(e *encoder) {
	f.encodeWith(e, bits.Even)
}

// encodeWith codes the presence bit at probability p.
func (f Flagged[T]) encodeWith(e *encoder, p bits.Probability) {
	e.w.PutBool(f.Present, p)
	if f.Present {
		f.Value.encode(e)
	}
}

func (Flagged[T]) decode(d *decoder) Flagged[T] {
	return decodeFlagged[T](d, bits.Even)
}

func decodeFlagged[T element[T]](d *decoder, p bits.Probability) Flagged[T] {
	var f Flagged[T]
	f.Present = d.r.ReadBool(p)
	if f.Present {
		f.Value = f.Value.decode(d)
	}
	return f
}

// Optional is a value whose presence is implied by a field coded earlier.
// Presence itself costs no bits.
type Optional[T element[T]] struct {
	Value   T
	Present bool
}

// Present returns a present Optional value.
func Present[T element[T]](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// encodeIf codes the value when implied is set. A presence that disagrees
// with implied is a schema violation.
func (o Optional[T]) encodeIf(e *encoder, implied bool) {
	if o.Present != implied {
		e.fail(ErrInconsistentOptional)
		return
	}
	if o.Present {
		o.Value.encode(e)
	}
}

func decodeOptional[T element[T]](d *decoder, implied bool) Optional[T] {
	var o Optional[T]
	if implied {
		o.Present = true
		o.Value = o.Value.decode(d)
	}
	return o
}

func encodeArray[T element[T]](e *encoder, elems []T) {
	for _, v := range elems {
		v.encode(e)
	}
}

func decodeArray[T element[T]](d *decoder, dst []T) {
	for i := range dst {
		dst[i] = dst[i].decode(d)
	}
}

// encodeEnumerate codes elems in order with each element's index pushed
// onto the walk path.
func encodeEnumerate[T element[T]](e *encoder, elems []T) {
	for i, v := range elems {
		e.push(i)
		v.encode(e)
		e.pop()
	}
}

func decodeEnumerate[T element[T]](d *decoder, dst []T) {
	for i := range dst {
		d.push(i)
		dst[i] = dst[i].decode(d)
		d.pop()
	}
}
