// Package randutil derives reproducible random sources for shuffling.
package randutil

import (
	rand "math/rand/v2"

	"github.com/coder/quartz"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG-backed *rand.Rand for seed. Equal seeds give equal
// sequences, which is what lets a game be replayed from its seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed picks the seed for a session: fixed when non-zero, otherwise taken
// from the clock the way the hardware seeds from its tick counter.
func Seed(fixed int64, clock quartz.Clock) int64 {
	if fixed != 0 {
		return fixed
	}
	return clock.Now("randutil", "seed").UnixNano()
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
