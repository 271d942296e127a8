package rng

import (
	"math"

	"golang.org/x/exp/rand"
)

// Stream is a single RNG stream for one (batch[, thread]) of Monte Carlo
// work. It wraps golang.org/x/exp/rand.Rand over a xoshiro256++ source, the
// same *rand.Rand surface the teacher's model files draw from directly.
type Stream struct {
	*rand.Rand
}

// NewStream constructs a deterministic stream for the given batch (and,
// when paths within a batch are parallelised across threads, thread)
// index. Construction is cheap and touches no global state.
func NewStream(baseSeed uint64, batchIndex int, threadIndex ...int) *Stream {
	seed := Seed(baseSeed, batchIndex, threadIndex...)
	return &Stream{Rand: rand.New(newXoshiro256pp(seed))}
}

// Uniform draws a uniform variate in [0,1).
func (s *Stream) Uniform() float64 {
	return s.Float64()
}

// Normal draws a standard normal variate. golang.org/x/exp/rand's
// NormFloat64 uses a ziggurat algorithm internally, satisfying §4.1's
// "Box-Muller or Ziggurat" requirement without reimplementing either.
func (s *Stream) Normal() float64 {
	return s.NormFloat64()
}

// NormalPair draws two standard normal variates Z1, Z2 with Corr(Z1,Z2) =
// rho, using the same linear-combination construction as the teacher's
// Heston step (models/heston.go: "z2 = rho*z1 + sqrt(1-rho^2)*z2").
func (s *Stream) NormalPair(rho float64) (z1, z2 float64) {
	z1 = s.NormFloat64()
	independent := s.NormFloat64()
	z2 = rho*z1 + math.Sqrt(1-rho*rho)*independent
	return z1, z2
}

// Poisson draws from a Poisson distribution via Knuth's algorithm, adequate
// for the small per-step means (lambda*dt << 1) this engine ever asks for
// (mean <= 30 per spec §4.1).
func (s *Stream) Poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		k++
		p *= s.Float64()
		if p <= l {
			return k - 1
		}
	}
}

// Categorical draws an index from a discrete distribution given by
// (possibly unnormalized) weights.
func (s *Stream) Categorical(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	u := s.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if u < cum {
			return i
		}
	}
	return len(weights) - 1
}
