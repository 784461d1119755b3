// Package crypto provides the hashing primitive used to fingerprint constant sets.
package crypto

import (
	"github.com/Klingon-tech/klingnet-invariants/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// HashLines hashes the given lines, each terminated by '\n'.
// Callers are responsible for ordering the lines canonically.
func HashLines(lines []string) types.Hash {
	h := blake3.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}
