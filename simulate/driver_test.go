package simulate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bcdannyboy/fairbtc/models"
)

func testInputs() models.SimInputs {
	h := models.HestonParams{Kappa: 3, Theta: 0.04, Xi: 0.3, Rho: -0.5}
	return models.SimInputs{
		S0: 65000,
		T:  24,
		Dt: 1,
		Regimes: models.Regimes{
			Bull: models.RegimeParams{Mu: 0, Heston: h},
			Bear: models.RegimeParams{Mu: 0, Heston: h},
		},
		HMM: models.HMM{P: [2][2]float64{{0.97, 0.03}, {0.05, 0.95}}, Pi0: [2]float64{0.5, 0.5}},
		Jumps: models.JumpParams{Lambda: 0.01, MuJ: 0, SigmaJ: 0.02, Kind: models.JumpMerton},
	}
}

func TestRunSimulationDeterministic(t *testing.T) {
	in := testInputs()
	target := models.Above(65000)
	opts := Opts{N: 2000, Batches: 4, BaseSeed: 123, Workers: 2}

	r1, err := RunSimulation(context.Background(), in, target, opts)
	require.NoError(t, err)
	r2, err := RunSimulation(context.Background(), in, target, opts)
	require.NoError(t, err)

	require.Equal(t, r1.P, r2.P, "same base seed/N/batches must reproduce bit-exact results")
	require.Equal(t, r1.Diagnostics.N, r2.Diagnostics.N)
}

func TestRunSimulationProbabilityBounds(t *testing.T) {
	in := testInputs()
	target := models.Above(65000)
	opts := Opts{N: 2000, Batches: 4, BaseSeed: 7}

	r, err := RunSimulation(context.Background(), in, target, opts)
	require.NoError(t, err)
	require.GreaterOrEqual(t, r.P, 0.0)
	require.LessOrEqual(t, r.P, 1.0)
	require.GreaterOrEqual(t, r.CI.Lo, 0.0)
	require.LessOrEqual(t, r.CI.Hi, 1.0)
	require.Equal(t, 2000, r.Diagnostics.N)
}

func TestRunSimulationProgressReportedPerBatch(t *testing.T) {
	in := testInputs()
	target := models.Above(65000)

	var snapshots []models.ProgressSnapshot
	opts := Opts{N: 1000, Batches: 5, BaseSeed: 1, OnProgress: func(p models.ProgressSnapshot) {
		snapshots = append(snapshots, p)
	}}

	_, err := RunSimulation(context.Background(), in, target, opts)
	require.NoError(t, err)
	require.Len(t, snapshots, 5)
	require.Equal(t, 1000, snapshots[len(snapshots)-1].CumulativeN)
}

func TestRunSimulationCancellation(t *testing.T) {
	in := testInputs()
	target := models.Above(65000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Opts{N: 1000, Batches: 10, BaseSeed: 1}
	_, err := RunSimulation(ctx, in, target, opts)
	require.Error(t, err)
}

func TestRunSimulationWithDistribution(t *testing.T) {
	in := testInputs()
	target := models.Above(65000)
	opts := Opts{N: 500, Batches: 2, BaseSeed: 2, RetainDistribution: true}

	r, err := RunSimulation(context.Background(), in, target, opts)
	require.NoError(t, err)
	require.NotNil(t, r.Distribution)
	require.Len(t, r.Distribution.Histogram, histogramBins)

	var total float64
	for _, bin := range r.Distribution.Histogram {
		total += bin.Probability
	}
	require.InDelta(t, 1.0, total, 1e-9, "histogram bin probabilities must sum to 1")
}

func TestPartitionCoversTotal(t *testing.T) {
	sizes := partition(103, 10)
	sum := 0
	for _, s := range sizes {
		sum += s
	}
	require.Equal(t, 103, sum)
}
