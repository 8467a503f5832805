// harness/samples.go
// Package: harness
package harness

import (
	"math"
	"math/rand"
	"slices"
)

// MakeSample returns n sorted values drawn from a log-normal distribution,
// which gives long right tails and many near-duplicates at the low end.
func MakeSample(n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Exp(rng.NormFloat64())
	}
	slices.Sort(out)
	return out
}
