// Package pricing converts raw hit counts into a probability, a Wilson
// confidence interval, a standard error, and a fair contract value in
// cents, per §4.7.
package pricing

import (
	"math"

	"github.com/bcdannyboy/fairbtc/models"
)

// Z95 and Z99 are the two-sided normal quantiles §4.7 names explicitly.
const (
	Z95 = 1.96
	Z99 = 2.576
)

// Price converts a hit count out of n trials into p-hat, a Wilson interval
// at the given z, standard error, and a fair cents value. n == 0 returns
// the documented degenerate case: p=0, CI=[0,1], stderr=0.
func Price(hits, n int, z float64) (p float64, ci models.ConfidenceInterval, stderr float64, fairCents int) {
	if n == 0 {
		return 0, models.ConfidenceInterval{Lo: 0, Hi: 1}, 0, 0
	}

	nf := float64(n)
	p = float64(hits) / nf
	stderr = math.Sqrt(p * (1 - p) / nf)

	ci = wilsonInterval(p, nf, z)
	fairCents = int(math.Round(100 * p))
	return p, ci, stderr, fairCents
}

// wilsonInterval computes the score-based binomial confidence interval,
// clipped to [0,1].
func wilsonInterval(p, n, z float64) models.ConfidenceInterval {
	z2 := z * z
	center := (p + z2/(2*n)) / (1 + z2/n)
	margin := (z * math.Sqrt(p*(1-p)/n+z2/(4*n*n))) / (1 + z2/n)

	lo := center - margin
	hi := center + margin
	if lo < 0 {
		lo = 0
	}
	if hi > 1 {
		hi = 1
	}
	return models.ConfidenceInterval{Lo: lo, Hi: hi}
}
