// Package cache is the bounded, TTL-expiring result cache (C8), keyed by a
// canonical fingerprint of the request that produced a SimResult, per §4.8.
package cache

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/fairbtc/models"
)

// Fingerprint identifies a pricing request for cache lookup. Two requests
// that would produce statistically indistinguishable results collapse to
// the same fingerprint: spot is rounded to the nearest dollar and the
// horizon to the nearest six minutes (0.1h), per §4.8.
type Fingerprint string

// NewFingerprint builds the canonical cache key for a market, spot, horizon,
// target, and sensitivity overrides: the market identifier, round(s0),
// round(t*10)/10, the target's own kind/strike/band, and each multiplier
// rounded to the nearest 0.01, per §3's fingerprint fields — two requests
// differing only in an override must not collide, since they price a
// different what-if scenario.
func NewFingerprint(market string, s0, horizonHours float64, target models.Target, overrides models.SensitivityOverrides) Fingerprint {
	roundedS0 := math.Round(s0)
	roundedT := math.Round(horizonHours*10) / 10
	o := overrides.Normalize()
	roundedVol := math.Round(o.VolMult*100) / 100
	roundedJumpIntensity := math.Round(o.JumpIntensityMult*100) / 100
	roundedJumpSize := math.Round(o.JumpSizeMult*100) / 100

	var targetPart string
	switch target.Kind {
	case models.TargetRange:
		targetPart = fmt.Sprintf("range|%v|%v", target.L, target.U)
	default:
		targetPart = fmt.Sprintf("above|%v", target.K)
	}

	return Fingerprint(fmt.Sprintf("%s|%v|%v|%s|%v|%v|%v", market, roundedS0, roundedT, targetPart, roundedVol, roundedJumpIntensity, roundedJumpSize))
}
