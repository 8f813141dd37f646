// Package record writes and reads the vp8enc record stream: one CBOR
// record per frame carrying the encoded first partition, optionally
// compressed, with digests of the payload and of the codec state after
// the frame.
package record

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/codec"
)

// Record errors.
var (
	ErrUnknownCompression = errors.New("record: unknown compression")
	ErrCorrupt            = errors.New("record: corrupt payload")
	ErrDigestMismatch     = errors.New("record: payload digest mismatch")
	ErrPayloadTooLarge    = errors.New("record: payload exceeds MaxPayload")
)

// Frame is one decoded record.
type Frame struct {
	Index     uint64
	KeyFrame  bool
	Partition []byte
	// State is the fingerprint of the codec state after the frame.
	State codec.Digest
}

type wireRecord struct {
	Index       uint64       `cbor:"1,keyasint"`
	KeyFrame    bool         `cbor:"2,keyasint"`
	Compression Compression  `cbor:"3,keyasint"`
	Size        int          `cbor:"4,keyasint"`
	Payload     []byte       `cbor:"5,keyasint"`
	Digest      codec.Digest `cbor:"6,keyasint"`
	State       codec.Digest `cbor:"7,keyasint"`
}

// Writer appends records to a stream.
type Writer struct {
	enc         *cbor.Encoder
	compression Compression
}

// NewWriter returns a Writer compressing payloads with c.
func NewWriter(w io.Writer, c Compression) *Writer {
	return &Writer{enc: codec.NewEncoder(w), compression: c}
}

// Write appends one frame.
func (w *Writer) Write(f Frame) error {
	if len(f.Partition) > MaxPayload {
		return errors.Wrapf(ErrPayloadTooLarge, "frame %d: %d bytes", f.Index, len(f.Partition))
	}
	payload, used, err := compress(f.Partition, w.compression)
	if err != nil {
		return err
	}
	return w.enc.Encode(wireRecord{
		Index:       f.Index,
		KeyFrame:    f.KeyFrame,
		Compression: used,
		Size:        len(f.Partition),
		Payload:     payload,
		Digest:      codec.PartitionDigest(f.Partition),
		State:       f.State,
	})
}

// Reader reads records from a stream.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: codec.NewDecoder(r)}
}

// Next returns the next frame, verifying its payload digest. It returns
// io.EOF after the last record.
func (r *Reader) Next() (*Frame, error) {
	var rec wireRecord
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "record: decoding")
	}
	partition, err := decompress(rec.Payload, rec.Compression, rec.Size)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %d", rec.Index)
	}
	if codec.PartitionDigest(partition) != rec.Digest {
		return nil, errors.Wrapf(ErrDigestMismatch, "frame %d", rec.Index)
	}
	if partition == nil {
		partition = []byte{}
	}
	return &Frame{
		Index:     rec.Index,
		KeyFrame:  rec.KeyFrame,
		Partition: partition,
		State:     rec.State,
	}, nil
}
