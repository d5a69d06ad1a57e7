// Package chaosCipher is an XOR stream cipher whose keystream comes from the
// logistic map x ← key·x·(1−x). It makes no semantic-security claim; the
// point of the mode is the chaotic keystream, not robustness.
//
// Determinism is the load-bearing invariant: the same (key, length) pair must
// regenerate a byte-identical keystream for decryption to work. The recurrence
// runs in float64 end to end; encrypt and decrypt within one deployment must
// share that representation.
package chaosCipher

import (
	"errors"
	"math"
)

// DefaultKey is used when the caller supplies no chaos parameter.
const DefaultKey = 3.99

// ErrInvalidKeyRange is returned for a chaos parameter outside (0, 4].
// Outside that interval the recurrence stops being chaotic or diverges.
var ErrInvalidKeyRange = errors.New("chaosCipher: key must be in the interval (0, 4]")

// Transform XORs data against the logistic-map keystream for key. The
// transform is its own inverse: applying it twice with the same key restores
// the input.
func Transform(data []byte, key float64) ([]byte, error) {
	if !(key > 0 && key <= 4.0) {
		return nil, ErrInvalidKeyRange
	}

	out := make([]byte, len(data))
	x := 0.5
	for i, b := range data {
		x = key * x * (1 - x)
		// Absorb floating-point drift back into [0, 1).
		x = math.Mod(x, 1.0)
		out[i] = b ^ byte(int(x*255))
	}
	return out, nil
}
