package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriceDegenerateZeroTrials(t *testing.T) {
	p, ci, stderr, fair := Price(0, 0, Z95)
	require.Equal(t, 0.0, p)
	require.Equal(t, 0.0, ci.Lo)
	require.Equal(t, 1.0, ci.Hi)
	require.Equal(t, 0.0, stderr)
	require.Equal(t, 0, fair)
}

func TestPriceHalfHitRate(t *testing.T) {
	p, ci, _, fair := Price(500, 1000, Z95)
	require.InDelta(t, 0.5, p, 1e-9)
	require.Equal(t, 50, fair)
	require.Less(t, ci.Lo, p)
	require.Greater(t, ci.Hi, p)
	require.GreaterOrEqual(t, ci.Lo, 0.0)
	require.LessOrEqual(t, ci.Hi, 1.0)
}

func TestPriceCertainHit(t *testing.T) {
	p, ci, stderr, fair := Price(1000, 1000, Z95)
	require.Equal(t, 1.0, p)
	require.Equal(t, 0.0, stderr)
	require.Equal(t, 100, fair)
	require.LessOrEqual(t, ci.Hi, 1.0)
	require.Less(t, ci.Lo, 1.0, "Wilson's interval still narrows from above on a perfect sample")
}

func TestPriceWiderCIAtHigherConfidence(t *testing.T) {
	_, ci95, _, _ := Price(500, 1000, Z95)
	_, ci99, _, _ := Price(500, 1000, Z99)
	require.Less(t, ci99.Lo, ci95.Lo)
	require.Greater(t, ci99.Hi, ci95.Hi)
}
