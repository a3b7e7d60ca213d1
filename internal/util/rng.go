package util

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// New returns a generator seeded with seed. Every seed, zero included, gives
// its own stream; math/rand reduces seeds modulo 2^31-1.
func New(seed int64) *rand.Rand {
	src := rand.NewSource(seed)
	return rand.New(src)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
