// Package tables contains the constant probability tables of the VP8
// bitstream.
//
// This includes the default and update probabilities for coefficient
// tokens, intra mode probabilities, motion vector contexts and split
// partition layouts.
//
// Source: RFC 6386
package tables
