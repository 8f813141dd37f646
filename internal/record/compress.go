package record

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Compression identifies how a record payload is stored. Values are
// written to the stream and must not change.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1 // LZ4 block
	CompressionZstd Compression = 2 // zstd, default level
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression parses the String form of a Compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, errors.Wrapf(ErrUnknownCompression, "%q", name)
	}
}

// zstd encoders and decoders are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("record: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("record: zstd decoder initialization failed: " + err.Error())
	}
}

// compress returns data compressed with c, and the compression actually
// used: payloads that do not shrink are stored as CompressionNone.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	if len(data) == 0 {
		return data, CompressionNone, nil
	}
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, 0, errors.Wrap(err, "lz4 compress")
		}
		if n == 0 || n >= len(data) {
			return data, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil
	case CompressionZstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return data, CompressionNone, nil
		}
		return out, CompressionZstd, nil
	default:
		return nil, 0, errors.Wrapf(ErrUnknownCompression, "tag %d", c)
	}
}

// MaxPayload bounds an uncompressed record payload. The frame tag
// limits a first partition to 19 bits of length.
const MaxPayload = 1 << 19

// decompress reverses compress. size is the uncompressed length.
func decompress(data []byte, c Compression, size int) ([]byte, error) {
	if size < 0 || size > MaxPayload {
		return nil, errors.Wrapf(ErrCorrupt, "payload size %d outside [0, %d]", size, MaxPayload)
	}
	var (
		out []byte
		err error
	)
	switch c {
	case CompressionNone:
		out = data
	case CompressionLZ4:
		out = make([]byte, size)
		var n int
		n, err = lz4.UncompressBlock(data, out)
		out = out[:max(n, 0)]
	case CompressionZstd:
		out, err = zstdDecoder.DecodeAll(data, make([]byte, 0, size))
	default:
		return nil, errors.Wrapf(ErrUnknownCompression, "tag %d", c)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%v decompress: %v", c, err)
	}
	if len(out) != size {
		return nil, errors.Wrapf(ErrCorrupt, "%v payload is %d bytes, want %d", c, len(out), size)
	}
	return out, nil
}
