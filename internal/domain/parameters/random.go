package parameters

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Bernoulli draws a single trial with success probability p from src.
// Exactly one value is consumed from src regardless of p.
func Bernoulli(src rand.Source, p Probability) bool {
	return distuv.Bernoulli{P: float64(p), Src: src}.Rand() == 1
}

// Poisson draws a count with mean lambda from src.
func Poisson(src rand.Source, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: lambda, Src: src}.Rand())
}

// RoundStochastic rounds x up with probability equal to its fractional part
// and down otherwise, so the expected result equals x. Exactly one value is
// consumed from src. x must be non-negative.
func RoundStochastic(src rand.Source, x float64) int {
	floor := math.Floor(x)
	if Bernoulli(src, Probability(x-floor)) {
		return int(floor) + 1
	}
	return int(floor)
}

// NewSource returns the deterministic generator used for a scenario run.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^streamSalt)) //nolint:gosec // reproducible simulation stream
}

// NewStream derives an independent generator from seed and a pair of
// stream coordinates, e.g. a farm id and a day number.
func NewStream(seed, a, b uint64) *rand.Rand {
	return rand.New(rand.NewPCG(mix(seed^mix(a)), mix(b^streamSalt))) //nolint:gosec // reproducible simulation stream
}

const streamSalt = 0x9e3779b97f4a7c15

// mix is the splitmix64 finaliser.
func mix(x uint64) uint64 {
	x += streamSalt
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
