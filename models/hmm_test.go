package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStationaryDistributionSymmetric(t *testing.T) {
	h := HMM{P: [2][2]float64{{0.9, 0.1}, {0.1, 0.9}}, Pi0: [2]float64{0.5, 0.5}}
	occ := h.StationaryDistribution()
	require.InDelta(t, 0.5, occ.Bull, 1e-9)
	require.InDelta(t, 0.5, occ.Bear, 1e-9)
}

func TestStationaryDistributionAsymmetric(t *testing.T) {
	// pi_bull*a = pi_bear*b with a=P[bull->bear]=0.2, b=P[bear->bull]=0.1
	// => pi_bull/pi_bear = b/a = 0.5 => pi_bull = 1/3, pi_bear = 2/3.
	h := HMM{P: [2][2]float64{{0.8, 0.2}, {0.1, 0.9}}, Pi0: [2]float64{0.5, 0.5}}
	occ := h.StationaryDistribution()
	require.InDelta(t, 1.0/3.0, occ.Bull, 1e-6)
	require.InDelta(t, 2.0/3.0, occ.Bear, 1e-6)
}

func TestStationaryDistributionAbsorbing(t *testing.T) {
	h := HMM{P: [2][2]float64{{1, 0}, {0, 1}}, Pi0: [2]float64{0.7, 0.3}}
	occ := h.StationaryDistribution()
	require.Equal(t, 0.7, occ.Bull)
	require.Equal(t, 0.3, occ.Bear)
}
