package simulate

import (
	"math"

	"github.com/bcdannyboy/fairbtc/models"
)

const histogramBins = 40

// BuildSummary computes the C5 terminal distribution summary: a one-pass
// Welford mean/stddev over every retained terminal price, a fixed 40-bin
// histogram spanning [min,max] (inflated by 1e-6 when degenerate), and the
// retained sample paths downsampled to at most maxPoints points each.
func BuildSummary(terminals []float64, samples []models.PathSample, maxPoints int) *models.DistributionSummary {
	mean, stddev := welford(terminals)
	hist := histogram(terminals, histogramBins)

	downsampled := make([]models.PathSample, 0, len(samples))
	for _, s := range samples {
		downsampled = append(downsampled, downsample(s, maxPoints))
	}

	return &models.DistributionSummary{
		Mean:      mean,
		StdDev:    stddev,
		Histogram: hist,
		Samples:   downsampled,
	}
}

// welford computes the mean and (population) standard deviation of xs in a
// single pass, per Welford's online algorithm.
func welford(xs []float64) (mean, stddev float64) {
	var m, m2 float64
	var n int
	for _, x := range xs {
		n++
		delta := x - m
		m += delta / float64(n)
		delta2 := x - m
		m2 += delta * delta2
	}
	if n == 0 {
		return 0, 0
	}
	variance := m2 / float64(n)
	return m, math.Sqrt(variance)
}

// histogram buckets xs into nBins equal-width bins spanning [min(xs),
// max(xs)]. A degenerate range (min == max, e.g. a single distinct
// terminal value) is inflated by 1e-6 so bin width is never zero.
func histogram(xs []float64, nBins int) []models.HistogramBin {
	bins := make([]models.HistogramBin, nBins)
	if len(xs) == 0 {
		return bins
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if hi-lo < 1e-6 {
		hi = lo + 1e-6
	}
	width := (hi - lo) / float64(nBins)

	counts := make([]int, nBins)
	for _, x := range xs {
		idx := int((x - lo) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= nBins {
			idx = nBins - 1
		}
		counts[idx]++
	}

	n := float64(len(xs))
	for i := range bins {
		bins[i] = models.HistogramBin{
			Price:       lo + (float64(i)+0.5)*width,
			Probability: float64(counts[i]) / n,
		}
	}
	return bins
}

// downsample reduces a PathSample to at most maxPoints points via a uniform
// stride, always keeping the first and last point.
func downsample(s models.PathSample, maxPoints int) models.PathSample {
	if maxPoints <= 0 || len(s) <= maxPoints {
		return s
	}
	stride := float64(len(s)-1) / float64(maxPoints-1)
	out := make(models.PathSample, 0, maxPoints)
	for i := 0; i < maxPoints; i++ {
		idx := int(math.Round(float64(i) * stride))
		if idx >= len(s) {
			idx = len(s) - 1
		}
		out = append(out, s[idx])
	}
	return out
}
