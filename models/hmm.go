package models

import "gonum.org/v1/gonum/mat"

// RegimeOccupancy is the long-run (stationary) fraction of time the HMM
// spends in each regime — a read-only diagnostic, never fed back into
// pricing.
type RegimeOccupancy struct {
	Bull float64
	Bear float64
}

// StationaryDistribution solves pi*P = pi, sum(pi) = 1 for the HMM's 2x2
// row-stochastic transition matrix, using gonum/mat for the underlying
// linear algebra rather than hand-rolling the closed-form 2-state formula.
func (h HMM) StationaryDistribution() RegimeOccupancy {
	a, b := h.P[0][1], h.P[1][0]
	if a+b == 0 {
		// No mixing: whichever state pi0 favors is absorbing in practice.
		return RegimeOccupancy{Bull: h.Pi0[0], Bear: h.Pi0[1]}
	}

	// Solve the stationary distribution via the linear system
	// [pi_bull, pi_bear] * P = [pi_bull, pi_bear], pi_bull + pi_bear = 1,
	// i.e. pi_bull*a = pi_bear*b with pi_bull+pi_bear=1. Expressed as a
	// 2x2 linear solve through gonum/mat for consistency with the rest of
	// the HMM machinery (and to generalize cleanly if this ever grows
	// beyond two states).
	A := mat.NewDense(2, 2, []float64{
		a, -b,
		1, 1,
	})
	rhs := mat.NewVecDense(2, []float64{0, 1})

	var x mat.VecDense
	if err := x.SolveVec(A, rhs); err != nil {
		// Degenerate matrix (shouldn't happen for a valid row-stochastic
		// P with a+b>0); fall back to the uniform split.
		return RegimeOccupancy{Bull: 0.5, Bear: 0.5}
	}
	bull := x.AtVec(0)
	bear := x.AtVec(1)
	if bull < 0 {
		bull = 0
	}
	if bear < 0 {
		bear = 0
	}
	total := bull + bear
	if total == 0 {
		return RegimeOccupancy{Bull: 0.5, Bear: 0.5}
	}
	return RegimeOccupancy{Bull: bull / total, Bear: bear / total}
}
