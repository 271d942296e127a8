// Package models holds the engine's immutable value types (Heston/jump/
// regime/HMM parameter bundles, targets, path samples, results) and the
// path kernel that evolves them, per the data model and path-kernel design.
package models

import (
	"fmt"

	"github.com/bcdannyboy/fairbtc/fairbtcerr"
)

// HestonParams is a Heston stochastic-volatility parameter bundle:
// mean-reversion speed (Kappa), long-run variance (Theta), vol-of-vol (Xi),
// and the price/variance correlation (Rho).
type HestonParams struct {
	Kappa float64
	Theta float64
	Xi    float64
	Rho   float64
}

// Validate checks the invariants of §3: Kappa, Theta, Xi > 0; -1 <= Rho <= 1.
// The Feller condition (2*Kappa*Theta >= Xi^2) is desirable but, per spec,
// not enforced here — the path kernel clamps variance to >= 0 when violated.
func (h HestonParams) Validate() error {
	switch {
	case !(h.Kappa > 0):
		return fmt.Errorf("%w: heston kappa must be > 0, got %v", fairbtcerr.InvalidInput, h.Kappa)
	case !(h.Theta > 0):
		return fmt.Errorf("%w: heston theta must be > 0, got %v", fairbtcerr.InvalidInput, h.Theta)
	case !(h.Xi > 0):
		return fmt.Errorf("%w: heston xi must be > 0, got %v", fairbtcerr.InvalidInput, h.Xi)
	case h.Rho < -1 || h.Rho > 1:
		return fmt.Errorf("%w: heston rho must be in [-1,1], got %v", fairbtcerr.InvalidInput, h.Rho)
	}
	return nil
}

// JumpKind selects the compound-Poisson jump-size family.
type JumpKind int

const (
	// JumpMerton is a log-normal jump size, N(MuJ, SigmaJ^2).
	JumpMerton JumpKind = iota
	// JumpKou is a double-exponential (asymmetric) jump size. The
	// calibrator (§4.6) never emits this kind; it is reachable only by a
	// caller constructing JumpParams directly, per the REDESIGN FLAG's
	// "implement properly" branch.
	JumpKou
)

func (k JumpKind) String() string {
	switch k {
	case JumpMerton:
		return "merton"
	case JumpKou:
		return "kou"
	default:
		return "unknown"
	}
}

// JumpParams is a compound-Poisson jump-diffusion parameter bundle.
// Lambda is the Poisson intensity per unit time (same units as SimInputs.Dt).
// MuJ/SigmaJ parameterize the Merton log-jump-size normal; for Kou, MuJ/SigmaJ
// are ignored and P/Eta1/Eta2 (the up-jump probability and the up/down rate
// parameters of the double exponential) are used instead.
type JumpParams struct {
	Lambda  float64
	MuJ     float64
	SigmaJ  float64
	Kind    JumpKind
	P       float64 // Kou: probability of an upward jump
	Eta1    float64 // Kou: rate of the upward exponential leg
	Eta2    float64 // Kou: rate of the downward exponential leg
	Kompens bool    // not read by the path kernel; jump-drift compensation is switched by SimInputs.CompensateJumps
}

// Validate checks Lambda >= 0, SigmaJ >= 0, and (for Kou) that P/Eta1/Eta2
// describe a proper double-exponential density.
func (j JumpParams) Validate() error {
	if j.Lambda < 0 {
		return fmt.Errorf("%w: jump lambda must be >= 0, got %v", fairbtcerr.InvalidInput, j.Lambda)
	}
	if j.SigmaJ < 0 {
		return fmt.Errorf("%w: jump sigma_j must be >= 0, got %v", fairbtcerr.InvalidInput, j.SigmaJ)
	}
	if j.Kind == JumpKou {
		if j.P < 0 || j.P > 1 {
			return fmt.Errorf("%w: kou p must be in [0,1], got %v", fairbtcerr.InvalidInput, j.P)
		}
		if j.Lambda > 0 && (j.Eta1 <= 0 || j.Eta2 <= 0) {
			return fmt.Errorf("%w: kou eta1/eta2 must be > 0 when lambda > 0", fairbtcerr.InvalidInput)
		}
	}
	return nil
}

// RegimeParams bundles a drift rate per hour (the path kernel multiplies Mu
// by Dt in each log-price step) with the Heston parameter set active while
// the HMM is in this regime.
type RegimeParams struct {
	Mu     float64
	Heston HestonParams
}

func (r RegimeParams) Validate() error {
	return r.Heston.Validate()
}

// Regimes is the two-state {BULL, BEAR} regime bundle the HMM switches
// between.
type Regimes struct {
	Bull RegimeParams
	Bear RegimeParams
}

func (r Regimes) Validate() error {
	if err := r.Bull.Validate(); err != nil {
		return fmt.Errorf("bull regime: %w", err)
	}
	if err := r.Bear.Validate(); err != nil {
		return fmt.Errorf("bear regime: %w", err)
	}
	return nil
}

// HMM is a two-state regime-switching hidden Markov chain: P is the
// row-stochastic 2x2 transition matrix [[p_bull_bull, p_bull_bear],
// [p_bear_bull, p_bear_bear]]; Pi0 is the initial-state distribution
// [p(bull), p(bear)].
type HMM struct {
	P   [2][2]float64
	Pi0 [2]float64
}

const probTol = 1e-9

// Validate checks that each row of P and Pi0 sum to 1 (within tolerance)
// and that all entries lie in [0,1].
func (h HMM) Validate() error {
	for i, row := range h.P {
		sum := 0.0
		for _, p := range row {
			if p < 0 || p > 1 {
				return fmt.Errorf("%w: hmm.p[%d] entries must be in [0,1]", fairbtcerr.InvalidInput, i)
			}
			sum += p
		}
		if diff := sum - 1; diff < -probTol || diff > probTol {
			return fmt.Errorf("%w: hmm.p[%d] must sum to 1, got %v", fairbtcerr.InvalidInput, i, sum)
		}
	}
	sum := h.Pi0[0] + h.Pi0[1]
	if h.Pi0[0] < 0 || h.Pi0[0] > 1 || h.Pi0[1] < 0 || h.Pi0[1] > 1 {
		return fmt.Errorf("%w: hmm.pi0 entries must be in [0,1]", fairbtcerr.InvalidInput)
	}
	if diff := sum - 1; diff < -probTol || diff > probTol {
		return fmt.Errorf("%w: hmm.pi0 must sum to 1, got %v", fairbtcerr.InvalidInput, sum)
	}
	return nil
}

// SensitivityOverrides is the caller-supplied what-if knob set from §6: three
// multipliers, each clamped to [0.9, 1.1], applied to the calibrated inputs
// before a run starts. A zero-valued multiplier means "not supplied by the
// caller" and normalizes to 1.0 (no-op), matching §6's "sourced from C10 when
// not supplied by the caller explicitly."
type SensitivityOverrides struct {
	VolMult           float64
	JumpIntensityMult float64
	JumpSizeMult      float64
}

// Normalize defaults unset (zero-valued) multipliers to 1.0, then clamps all
// three to [0.9, 1.1].
func (o SensitivityOverrides) Normalize() SensitivityOverrides {
	return SensitivityOverrides{
		VolMult:           clampMult(o.VolMult),
		JumpIntensityMult: clampMult(o.JumpIntensityMult),
		JumpSizeMult:      clampMult(o.JumpSizeMult),
	}
}

func clampMult(m float64) float64 {
	if m == 0 {
		m = 1.0
	}
	switch {
	case m < 0.9:
		return 0.9
	case m > 1.1:
		return 1.1
	default:
		return m
	}
}

// SimInputs bundles everything that fully determines the distribution of a
// simulation's outcome: spot, horizon, step size, regime/HMM/jump
// parameters.
type SimInputs struct {
	S0              float64
	T               float64 // hours
	Dt              float64 // hours
	Regimes         Regimes
	HMM             HMM
	Jumps           JumpParams
	CompensateJumps bool
}

// Steps returns round(T/Dt), validated to be a positive integer per §3.
func (s SimInputs) Steps() int {
	return int(s.T/s.Dt + 0.5)
}

func (s SimInputs) Validate() error {
	if !(s.S0 > 0) {
		return fmt.Errorf("%w: s0 must be > 0, got %v", fairbtcerr.InvalidInput, s.S0)
	}
	if !(s.T > 0) {
		return fmt.Errorf("%w: t must be > 0, got %v", fairbtcerr.InvalidInput, s.T)
	}
	if !(s.Dt > 0) {
		return fmt.Errorf("%w: dt must be > 0, got %v", fairbtcerr.InvalidInput, s.Dt)
	}
	if s.Steps() < 1 {
		return fmt.Errorf("%w: t/dt must round to >= 1 step", fairbtcerr.InvalidInput)
	}
	if err := s.Regimes.Validate(); err != nil {
		return err
	}
	if err := s.HMM.Validate(); err != nil {
		return err
	}
	if err := s.Jumps.Validate(); err != nil {
		return err
	}
	return nil
}
