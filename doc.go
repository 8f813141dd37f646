// Package vp8 re-encodes the first partition of VP8 frames while
// maintaining the codec state a decoder replaying the stream would hold.
//
// Each frame chunk is parsed (frame tag, header, macroblock headers) and
// applied to the session's DecoderState: its probability tables, its
// segmentation map and its quantizer and loop filter adjustments. Key
// frames replace that state; inter frames update it.
//
// # Basic Usage
//
//	enc, err := vp8.NewEncoder(width, height, firstKeyFrame)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, frame := range frames {
//	    partition, err := enc.EncodeFrame(frame)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    // Key frames return the header and macroblock headers;
//	    // inter frames return an empty slice.
//	}
//
// # Entropy Refresh
//
// A frame's probability updates always apply to the frame itself. They
// persist into later frames only when the frame sets
// refresh_entropy_probs. Quantizer and loop filter deltas of inter frames
// always persist.
//
// # Errors
//
// EncodeFrame returns a *FrameError whose kind is ErrFraming or
// ErrHeaderParse, and which unwraps to the sentinel of the failing layer.
// A rejected frame leaves the session untouched.
//
// # Thread Safety
//
// Encoder instances are NOT safe for concurrent use. To encode from one
// state along several paths, take a Snapshot and Restore it into separate
// Encoders.
//
// # Reference
//
// RFC 6386, VP8 Data Format and Decoding Guide.
package vp8
