// Package bits implements the boolean entropy coder used by VP8 frame
// headers and macroblock data.
//
// Writer and Reader are exact mirrors: a Reader fed the output of a Writer
// returns the same sequence of bits when queried with the same sequence of
// probabilities.
//
// Source: RFC 6386 section 7
package bits

// Probability is the probability, scaled to 256, that a coded bit is
// false. Tables hold values 1 through 255. A header may code 0, which the
// coder treats like 1: the split of the interval is its minimum of one.
type Probability uint8

// Even is the probability used for literal bits.
const Even Probability = 128

// InvariantError is the panic value raised on coder misuse, such as writing
// after Finish. It signals a programming error, never bad input.
type InvariantError string

func (e InvariantError) Error() string {
	return string(e)
}
