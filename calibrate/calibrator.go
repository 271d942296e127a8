package calibrate

import (
	"math"

	"github.com/bcdannyboy/fairbtc/models"
)

// minCandles is the shortest minute-bar history the estimators in this
// package will trust. Below it, Calibrate substitutes the default bundle
// rather than fit noise.
const minCandles = 30

// Calibrate builds a CalibrationData bundle from a time-ordered minute
// candle history, per §4.6. It never returns an error: an unusable history
// (too short, or failing ValidateSeries) degrades to defaultBundle with
// Degraded set, rather than failing the caller's pricing request outright.
func Calibrate(candles []models.Candle) models.CalibrationData {
	if len(candles) < minCandles {
		return defaultBundle(candles)
	}
	if err := models.ValidateSeries(candles); err != nil {
		return defaultBundle(candles)
	}

	minuteCloses := closesOf(candles)
	daily := aggregate(candles, dayMS)

	dailyRV := blendedDailyRV(candles)
	weekRV := weeklyRV(candles)
	intraRV := intradayRV(minuteCloses)

	heston := hestonFromRV(dailyRV, weekRV, intraRV)
	jumps, _ := detectJumps(minuteCloses)
	regimeClass := classifyRegime(minuteCloses)
	yz, rs, gk := supplementalDiagnostics(daily)

	var ts int64
	if n := len(candles); n > 0 {
		ts = candles[n-1].TimeMS
	}

	return models.CalibrationData{
		DailyRV:     dailyRV,
		WeeklyRV:    weekRV,
		IntradayRV:  intraRV,
		Jumps:       jumps,
		Regime:      regimeClass,
		TimestampMS: ts,
		Degraded:    false,
		Heston:      deriveRegimes(heston, intraRV),

		YangZhang:      yz,
		RogersSatchell: rs,
		GarmanKlass:    gk,
	}
}

// deriveRegimes splits a single fitted HestonParams into the {BULL, BEAR}
// bundle SimInputs needs, giving each regime the same vol-of-vol surface
// but opposite per-hour drift tilts sized to a fraction of the hourly
// variance implied by intradayAnnualRV.
func deriveRegimes(h models.HestonParams, intradayAnnualRV float64) models.Regimes {
	sigmaHour := intradayAnnualRV / math.Sqrt(24*tradingDaysYear)
	tilt := 0.5 * sigmaHour * sigmaHour

	return models.Regimes{
		Bull: models.RegimeParams{Mu: tilt, Heston: h},
		Bear: models.RegimeParams{Mu: -tilt, Heston: h},
	}
}

// defaultBundle is the §7 CalibrationInputUnavailable fallback: theta=0.04,
// kappa=2.0, xi=0.3, rho=-0.5, jumps{lambda=0.1, mu_j=0, sigma_j=0.02,
// kind=merton}, regime={BULL,[0.5,0.5]}. Candles (if any) only supply the
// timestamp.
func defaultBundle(candles []models.Candle) models.CalibrationData {
	var ts int64
	if n := len(candles); n > 0 {
		ts = candles[n-1].TimeMS
	}

	h := models.HestonParams{Kappa: 2.0, Theta: 0.04, Xi: 0.3, Rho: -0.5}

	return models.CalibrationData{
		DailyRV:     math.Sqrt(h.Theta),
		WeeklyRV:    math.Sqrt(h.Theta),
		IntradayRV:  math.Sqrt(h.Theta),
		Jumps:       models.JumpParams{Lambda: 0.1, MuJ: 0, SigmaJ: 0.02, Kind: models.JumpMerton},
		Regime:      models.RegimeClassification{Current: models.RegimeBull, Probabilities: [2]float64{0.5, 0.5}},
		TimestampMS: ts,
		Degraded:    true,
		Heston:      models.Regimes{Bull: models.RegimeParams{Mu: 0, Heston: h}, Bear: models.RegimeParams{Mu: 0, Heston: h}},

		YangZhang:      map[string]float64{},
		RogersSatchell: map[string]float64{},
		GarmanKlass:    map[string]float64{},
	}
}
