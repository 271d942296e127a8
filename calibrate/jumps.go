package calibrate

import (
	"math"

	"github.com/bcdannyboy/fairbtc/models"
	"gonum.org/v1/gonum/stat"
)

// jumpSigma is the outlier threshold (in standard deviations of the minute
// log-return series) above which a return is flagged as a jump rather than
// diffusive noise, per §4.6.
const jumpSigma = 3.0

// detectJumps flags outlier minute returns and fits {lambda, mu_j, sigma_j}
// per §4.6's literal formula: lambda = jumps/total clamped to [0.01, 1.0];
// sigma_j = stddev of ln|jump size| clamped to [0.01, 0.1]; mu_j forced to 0
// (symmetric). If none are flagged, emits the documented default
// {lambda=0.1, mu_j=0, sigma_j=0.02}. The calibrator always emits JumpMerton:
// a Kou fit would need the flagged sample split into up/down tails, which a
// handful of flagged points per window cannot support reliably.
func detectJumps(minuteCloses []float64) (jump models.JumpParams, flagged int) {
	defaultJump := models.JumpParams{Lambda: 0.1, MuJ: 0, SigmaJ: 0.02, Kind: models.JumpMerton}

	rets := logReturns(minuteCloses)
	if len(rets) < 2 {
		return defaultJump, 0
	}

	mean, std := stat.MeanStdDev(rets, nil)
	if std <= 0 {
		return defaultJump, 0
	}

	var logAbsJump []float64
	for _, r := range rets {
		if math.Abs(r-mean) > jumpSigma*std {
			logAbsJump = append(logAbsJump, math.Log(math.Abs(r)))
		}
	}
	flagged = len(logAbsJump)
	if flagged == 0 {
		return defaultJump, 0
	}

	lambda := clamp(float64(flagged)/float64(len(rets)), 0.01, 1.0)

	var sigmaJ float64
	if flagged >= 2 {
		sigmaJ = stat.StdDev(logAbsJump, nil)
	}
	sigmaJ = clamp(sigmaJ, 0.01, 0.1)

	return models.JumpParams{
		Lambda:  lambda,
		MuJ:     0,
		SigmaJ:  sigmaJ,
		Kind:    models.JumpMerton,
		Kompens: false,
	}, flagged
}
