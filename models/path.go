package models

import (
	"math"

	"github.com/bcdannyboy/fairbtc/rng"
)

// PathPoint is a single (time, price) sample on a path.
type PathPoint struct {
	THours float64
	Price  float64
}

// PathSample is an ordered, monotone-in-time sequence of PathPoints,
// starting at t=0 with price S0.
type PathSample []PathPoint

// varianceCeiling caps per-step variance before it is used in the price
// update, per §4.2's numerical policy (500% annualised vol sentinel).
const varianceCeiling = 25.0

// logDisplacementClamp is the hard per-step guard on |delta log-price|
// (a 20x move), per §4.2's numerical policy.
const logDisplacementClamp = 3.0

// PathDiagnostics records numerical-policy activations for a single path,
// aggregated by the driver across a batch.
type PathDiagnostics struct {
	VarianceClamped     int
	DisplacementClamped int
	CompensatorApplied  bool
	KouUsed             bool
	NumericalFault      bool
}

// Kernel evolves a single path under the combined Heston + jump +
// regime-switching dynamics of §4.2. It holds no mutable state of its own;
// all state lives in the caller-supplied stream and the returned sample.
type Kernel struct {
	Inputs SimInputs
}

// NewKernel constructs a path kernel for the given, already-validated
// inputs.
func NewKernel(inputs SimInputs) Kernel {
	return Kernel{Inputs: inputs}
}

// SimulatePathOpts controls what a single path run retains.
type SimulatePathOpts struct {
	// RetainSample, when true, returns a downsample-ready PathSample of
	// every step (the caller subsamples for storage, per §4.5).
	RetainSample bool
}

// SimulatePath draws one terminal price (and, optionally, the full path)
// under SimInputs, per §4.2 steps 1-4. It returns math.NaN() as the
// terminal price if a numerical fault (NaN/Inf) is detected mid-path; the
// caller (the driver) is responsible for discarding and retrying such
// paths per §7's NumericalFault policy.
func (k Kernel) SimulatePath(s *rng.Stream, opts SimulatePathOpts) (terminal float64, sample PathSample, diag PathDiagnostics) {
	in := k.Inputs
	n := in.Steps()
	dt := in.Dt

	regime := s.Categorical([]float64{in.HMM.Pi0[0], in.HMM.Pi0[1]})

	x := math.Log(in.S0)
	v := regimeHeston(in.Regimes, regime).Theta

	if opts.RetainSample {
		sample = make(PathSample, 0, n+1)
		sample = append(sample, PathPoint{THours: 0, Price: in.S0})
	}

	for step := 0; step < n; step++ {
		rp := regimeParams(in.Regimes, regime)
		hp := rp.Heston

		vPlus := math.Max(v, 0)

		zS, zV := s.NormalPair(hp.Rho)

		vNext := v + hp.Kappa*(hp.Theta-vPlus)*dt + hp.Xi*math.Sqrt(vPlus*dt)*zV
		vNext = math.Max(vNext, 0)
		if vNext > varianceCeiling {
			vNext = varianceCeiling
			diag.VarianceClamped++
		}

		dx := (rp.Mu-0.5*vPlus)*dt + math.Sqrt(vPlus*dt)*zS

		jumpSum, kouUsed := drawJumps(s, in.Jumps, dt)
		diag.KouUsed = diag.KouUsed || kouUsed
		if in.CompensateJumps && in.Jumps.Lambda > 0 {
			dx -= jumpCompensator(in.Jumps) * dt
			diag.CompensatorApplied = true
		}
		dx += jumpSum

		if dx > logDisplacementClamp {
			dx = logDisplacementClamp
			diag.DisplacementClamped++
		} else if dx < -logDisplacementClamp {
			dx = -logDisplacementClamp
			diag.DisplacementClamped++
		}

		x += dx
		v = vNext

		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
			diag.NumericalFault = true
			return math.NaN(), sample, diag
		}

		regime = s.Categorical([]float64{in.HMM.P[regime][0], in.HMM.P[regime][1]})

		if opts.RetainSample {
			sample = append(sample, PathPoint{THours: float64(step+1) * dt, Price: math.Exp(x)})
		}
	}

	terminal = math.Exp(x)
	return terminal, sample, diag
}

func regimeParams(r Regimes, idx int) RegimeParams {
	if idx == 0 {
		return r.Bull
	}
	return r.Bear
}

func regimeHeston(r Regimes, idx int) HestonParams {
	return regimeParams(r, idx).Heston
}

// drawJumps draws the compound-Poisson jump contribution to log-price for
// one step: J ~ Poisson(lambda*dt) jumps, each an independent draw from
// the jump-size family, summed. Grounded on models/merton.go and
// models/kuo.go's per-step jump draws, generalized to draw the full
// Poisson count up front (per spec §4.2.3e) rather than thinning a
// Bernoulli test against lambda*dt as the teacher's single-jump-per-step
// approximation did.
func drawJumps(s *rng.Stream, j JumpParams, dt float64) (sum float64, kouUsed bool) {
	if j.Lambda <= 0 {
		return 0, false
	}
	count := s.Poisson(j.Lambda * dt)
	if count == 0 {
		return 0, false
	}
	switch j.Kind {
	case JumpKou:
		kouUsed = true
		for i := 0; i < count; i++ {
			if s.Float64() < j.P {
				sum += s.ExpFloat64() / j.Eta1
			} else {
				sum -= s.ExpFloat64() / j.Eta2
			}
		}
	default: // JumpMerton
		for i := 0; i < count; i++ {
			sum += j.MuJ + j.SigmaJ*s.NormFloat64()
		}
	}
	return sum, kouUsed
}

// jumpCompensator returns lambda*(E[e^Y]-1) for the configured jump-size
// family, the drift correction §4.2.3e allows subtracting (the caller
// multiplies it by dt) but which is off by default per §9.
func jumpCompensator(j JumpParams) float64 {
	switch j.Kind {
	case JumpKou:
		// E[e^Y] for a double-exponential jump with rates eta1 (up) and
		// eta2 (down), valid for eta1 > 1: p*eta1/(eta1-1) + (1-p)*eta2/(eta2+1).
		up := 0.0
		if j.Eta1 > 1 {
			up = j.P * j.Eta1 / (j.Eta1 - 1)
		}
		down := (1 - j.P) * j.Eta2 / (j.Eta2 + 1)
		return j.Lambda * (up + down - 1)
	default: // JumpMerton: E[e^Y] = exp(mu_j + sigma_j^2/2)
		return j.Lambda * (math.Exp(j.MuJ+0.5*j.SigmaJ*j.SigmaJ) - 1)
	}
}
