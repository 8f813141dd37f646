package codec

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 keyed hash.
type Digest [32]byte

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

type domainKey [32]byte

// Domain keys are ASCII names zero-padded to 32 bytes. Changing one
// invalidates every digest in its domain.
var (
	stateDomainKey = domainKey{
		'g', 'o', '-', 'v', 'p', '8', '.', 's', 't', 'a', 't', 'e',
	}
	partitionDomainKey = domainKey{
		'g', 'o', '-', 'v', 'p', '8', '.', 'p', 'a', 'r', 't', 'i', 't', 'i', 'o', 'n',
	}
)

// StateDigest hashes a serialized codec state.
func StateDigest(data []byte) Digest {
	return keyedHash(stateDomainKey, data)
}

// PartitionDigest hashes an encoded partition.
func PartitionDigest(data []byte) Digest {
	return keyedHash(partitionDomainKey, data)
}

func keyedHash(key domainKey, data []byte) Digest {
	h, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("codec: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	h.Write(data)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
