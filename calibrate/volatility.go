package calibrate

import (
	"math"

	"github.com/bcdannyboy/fairbtc/models"
	"gonum.org/v1/gonum/stat"
)

const (
	ewmaLambda      = 0.94
	tradingDaysYear = 252.0
	minutesPerDay   = 1440.0
)

// ewmaVariance computes a RiskMetrics-style EWMA variance over a log-return
// series, seeded by the first observation, matching the recursive form
// J.P. Morgan's RiskMetrics (and every desk since) uses for intraday RV.
func ewmaVariance(rets []float64, lambda float64) float64 {
	if len(rets) == 0 {
		return 0
	}
	v := rets[0] * rets[0]
	for i := 1; i < len(rets); i++ {
		v = lambda*v + (1-lambda)*rets[i]*rets[i]
	}
	return v
}

// intradayRV returns the annualized EWMA realized volatility of the
// minute-bar closes, per §4.6's "current regime" volatility input.
func intradayRV(minuteCloses []float64) float64 {
	rets := logReturns(minuteCloses)
	v := ewmaVariance(rets, ewmaLambda)
	return math.Sqrt(v * minutesPerDay * tradingDaysYear)
}

// parkinsonDaily computes the Parkinson high-low range estimator over daily
// bars, grounded on models/parkinsons.go's calculateParkinsonsNumber,
// generalized away from the teacher's fixed lookback-period table.
func parkinsonDaily(daily []models.Candle) float64 {
	n := len(daily)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range daily {
		if c.High <= 0 || c.Low <= 0 {
			continue
		}
		lr := math.Log(c.High / c.Low)
		sum += lr * lr
	}
	pk := math.Sqrt(sum / (4 * float64(n) * math.Ln2))
	return pk * math.Sqrt(tradingDaysYear)
}

// blendedDailyRV combines an hourly-return stddev with the Parkinson
// range estimator, per §4.6: 0.7*hourly_stddev + 0.3*parkinson_daily, both
// annualized to the same scale. This is the dailyRV feeding theta/kappa/xi.
func blendedDailyRV(candles []models.Candle) float64 {
	hourly := aggregate(candles, hourMS)
	hourlyRets := logReturns(closesOf(hourly))
	var hourlyStd float64
	if len(hourlyRets) > 1 {
		hourlyStd = stat.StdDev(hourlyRets, nil) * math.Sqrt(24*tradingDaysYear)
	}

	daily := aggregate(candles, dayMS)
	pk := parkinsonDaily(daily)

	return 0.7*hourlyStd + 0.3*pk
}

// weeklyRV is the stddev of daily log returns scaled by sqrt(5) to a
// five-day horizon (not annualized), per §4.6's theta blend.
func weeklyRV(candles []models.Candle) float64 {
	daily := aggregate(candles, dayMS)
	dailyRets := logReturns(closesOf(daily))
	if len(dailyRets) < 2 {
		return 0
	}
	return stat.StdDev(dailyRets, nil) * math.Sqrt(5)
}

// clamp restricts x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// hestonFromRV derives {theta, kappa, xi, rho} from the three realized-vol
// point estimates, per §4.6's literal closed-form:
//
//	theta = 0.7·dailyRV² + 0.3·weeklyRV², clamped to [1e-4, 0.25]
//	kappa = 3.0 if |intradayRV−dailyRV| > 0.01 else 2.0, clamped to [0.5, 5]
//	xi    = |intradayRV−dailyRV| / dailyRV, clamped to [0.1, 1]
//	rho   = −0.5 (constant)
func hestonFromRV(dailyRV, weeklyRV, intradayRV float64) models.HestonParams {
	theta := clamp(0.7*dailyRV*dailyRV+0.3*weeklyRV*weeklyRV, 1e-4, 0.25)

	kappa := 2.0
	if math.Abs(intradayRV-dailyRV) > 0.01 {
		kappa = 3.0
	}
	kappa = clamp(kappa, 0.5, 5)

	xi := 0.0
	if dailyRV > 0 {
		xi = math.Abs(intradayRV-dailyRV) / dailyRV
	}
	xi = clamp(xi, 0.1, 1)

	return models.HestonParams{Kappa: kappa, Theta: theta, Xi: xi, Rho: -0.5}
}
