// Package randutil centralises construction of deterministic random streams.
// Every component that draws randomness takes an explicit *rand.Rand so that
// a given seed reproduces an identical run.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper derives the two 64-bit seeds required by rand/v2 so that all
// call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// DeriveSeed produces an independent child seed from a parent seed and an
// index. Sessions running in parallel each get their own stream derived this
// way, so adding or removing a session never perturbs the others.
func DeriveSeed(parent int64, index int) int64 {
	return int64(mix(uint64(parent) + uint64(index+1)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
