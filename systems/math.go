package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Random range helpers

// randIntRange returns a uniform integer in [lo, hi). Returns lo when the
// range is empty, so a degenerate range like [3, 3) yields 3.
func randIntRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}

// randTruncRange truncates both bounds toward zero, orders them, and draws
// a uniform integer from the resulting half-open range. Bounds are clamped
// to the int32 range and NaN truncates to zero.
func randTruncRange(rng *rand.Rand, a, b float64) float64 {
	lo, hi := truncInt32(a), truncInt32(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	return float64(randIntRange(rng, lo, hi))
}

func truncInt32(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x <= math.MinInt32:
		return math.MinInt32
	case x >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(x)
}

// Vector helpers

// lerp returns a + t*(b-a).
func lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}
