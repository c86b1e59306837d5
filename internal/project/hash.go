package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 value; it has the layout of source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by deps. Callers keep deps in a stable
// order, so equal inputs give equal cache keys.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	for _, d := range append([]Digest{content}, deps...) {
		h.Write(d[:])
	}
	var out Digest
	h.Sum(out[:0])
	return out
}

// String is the hex form used in cache file names.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }
