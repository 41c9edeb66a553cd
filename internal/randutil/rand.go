// Package randutil builds reproducible random sources for bot moves and
// simulated players.
package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

// weyl is the 64-bit golden ratio increment used to derive the second PCG word.
const weyl = 0x9e3779b97f4a7c15

// New returns a PCG-backed *rand.Rand whose sequence depends only on seed.
func New(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(s), splitmix(s+weyl)))
}

// Derive returns the seed for the n-th independent stream of a base seed, so
// parallel games in one simulation never share a sequence.
func Derive(base int64, n int) int64 {
	return int64(splitmix(uint64(base) + uint64(n)*weyl))
}

// Seed returns a non-zero seed from the operating system's entropy source.
func Seed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("randutil: reading entropy: " + err.Error())
	}
	if s := int64(binary.LittleEndian.Uint64(b[:])); s != 0 {
		return s
	}
	return 1
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
