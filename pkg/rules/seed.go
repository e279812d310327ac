package rules

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// newSeed generates a high-entropy seed using crypto/rand, suitable
// for initializing the engine's pseudo-random source.
func newSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
