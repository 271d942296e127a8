package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bcdannyboy/fairbtc/rng"
)

func testInputs() SimInputs {
	h := HestonParams{Kappa: 3, Theta: 0.04, Xi: 0.3, Rho: -0.5}
	return SimInputs{
		S0: 65000,
		T:  24,
		Dt: 1,
		Regimes: Regimes{
			Bull: RegimeParams{Mu: 0.0001, Heston: h},
			Bear: RegimeParams{Mu: -0.0001, Heston: h},
		},
		HMM: HMM{P: [2][2]float64{{0.97, 0.03}, {0.05, 0.95}}, Pi0: [2]float64{0.5, 0.5}},
		Jumps: JumpParams{Lambda: 0.02, MuJ: -0.01, SigmaJ: 0.05, Kind: JumpMerton},
	}
}

func TestSimulatePathDeterministic(t *testing.T) {
	k := NewKernel(testInputs())

	s1 := rng.NewStream(99, 0)
	t1, _, _ := k.SimulatePath(s1, SimulatePathOpts{})

	s2 := rng.NewStream(99, 0)
	t2, _, _ := k.SimulatePath(s2, SimulatePathOpts{})

	require.Equal(t, t1, t2, "identical streams must produce bit-identical terminal prices")
}

func TestSimulatePathRetainsSample(t *testing.T) {
	in := testInputs()
	k := NewKernel(in)
	s := rng.NewStream(1, 0)

	terminal, sample, _ := k.SimulatePath(s, SimulatePathOpts{RetainSample: true})

	require.Len(t, sample, in.Steps()+1)
	require.Equal(t, 0.0, sample[0].THours)
	require.Equal(t, in.S0, sample[0].Price)
	require.InDelta(t, terminal, sample[len(sample)-1].Price, 1e-9)
}

func TestSimulatePathDegenerateRegimesMatchSingleRegime(t *testing.T) {
	// With identical Bull/Bear parameters and a fully mixing HMM, the path
	// must be indistinguishable from a plain single-regime Heston path: the
	// regime draw changes the *label* each step but never the dynamics.
	h := HestonParams{Kappa: 3, Theta: 0.04, Xi: 0.3, Rho: -0.5}
	in := SimInputs{
		S0:      65000,
		T:       24,
		Dt:      1,
		Regimes: Regimes{Bull: RegimeParams{Mu: 0, Heston: h}, Bear: RegimeParams{Mu: 0, Heston: h}},
		HMM:     HMM{P: [2][2]float64{{0.5, 0.5}, {0.5, 0.5}}, Pi0: [2]float64{1, 0}},
	}
	k := NewKernel(in)

	s1 := rng.NewStream(5, 0)
	t1, _, _ := k.SimulatePath(s1, SimulatePathOpts{})

	in.HMM.Pi0 = [2]float64{0, 1}
	k2 := NewKernel(in)
	s2 := rng.NewStream(5, 0)
	t2, _, _ := k2.SimulatePath(s2, SimulatePathOpts{})

	require.Equal(t, t1, t2, "equal-parameter regimes must be indistinguishable regardless of initial label")
}

func TestSimulatePathVarianceNeverNegative(t *testing.T) {
	in := testInputs()
	in.Regimes.Bull.Heston.Xi = 5 // deliberately large vol-of-vol to stress the clamp
	k := NewKernel(in)
	s := rng.NewStream(3, 0)

	terminal, _, diag := k.SimulatePath(s, SimulatePathOpts{})
	require.False(t, diag.NumericalFault)
	require.False(t, math.IsNaN(terminal))
	require.Greater(t, terminal, 0.0)
}
