package simulate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bcdannyboy/fairbtc/models"
)

func TestWelfordMatchesKnownMoments(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean, stddev := welford(xs)
	require.InDelta(t, 5.0, mean, 1e-9)
	require.InDelta(t, 2.0, stddev, 1e-9)
}

func TestHistogramDegenerateRangeInflated(t *testing.T) {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = 65000
	}
	bins := histogram(xs, 40)

	var total float64
	for _, b := range bins {
		total += b.Probability
	}
	require.InDelta(t, 1.0, total, 1e-9)
}

func TestDownsampleCapsLength(t *testing.T) {
	sample := make(models.PathSample, 500)
	for i := range sample {
		sample[i] = models.PathPoint{THours: float64(i), Price: 65000}
	}
	out := downsample(sample, 60)
	require.LessOrEqual(t, len(out), 60)
	require.Equal(t, sample[0], out[0])
	require.Equal(t, sample[len(sample)-1], out[len(out)-1])
}

func TestDownsampleNoOpBelowCap(t *testing.T) {
	sample := make(models.PathSample, 10)
	out := downsample(sample, 60)
	require.Equal(t, sample, out)
}
