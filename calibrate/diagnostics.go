package calibrate

import (
	"math"

	"github.com/bcdannyboy/fairbtc/models"
)

// periods mirrors the teacher's fixed lookback table (models/parkinsons.go,
// models/yang.go, models/rogers.go, models/garman_klass.go), trimmed to the
// windows a single pricing request's candle history can actually supply.
var periods = []struct {
	name string
	days int
}{
	{"1w", 5},
	{"1m", 21},
	{"3m", 63},
}

// supplementalDiagnostics computes the YangZhang/RogersSatchell/GarmanKlass
// volatility families over daily bars, for every lookback window the
// history covers. These never feed the Heston/jump formulas; they exist
// purely as the richer diagnostic bundle SPEC_FULL adds on top of the
// theta/kappa/xi/rho the calibrator actually uses.
func supplementalDiagnostics(daily []models.Candle) (yangZhang, rogersSatchell, garmanKlass map[string]float64) {
	yangZhang = map[string]float64{}
	rogersSatchell = map[string]float64{}
	garmanKlass = map[string]float64{}

	for _, p := range periods {
		if len(daily) < p.days {
			continue
		}
		window := daily[len(daily)-p.days:]
		if v := yangZhangVol(window); v != 0 {
			yangZhang[p.name] = v
		}
		if v := rogersSatchellVol(window); v != 0 {
			rogersSatchell[p.name] = v
		}
		if v := garmanKlassVol(window); v != 0 {
			garmanKlass[p.name] = v
		}
	}
	return
}

// yangZhangVol is a direct generalization of models/yang.go's
// calculateYangZhang from tradier.QuoteHistory to []models.Candle.
func yangZhangVol(bars []models.Candle) float64 {
	n := len(bars)
	if n < 2 {
		return 0
	}
	k := 0.34 / (1.34 + (float64(n)+1)/(float64(n)-1))

	var overnightSum, overnightMean float64
	for i := 1; i < n; i++ {
		lr := math.Log(bars[i].Open / bars[i-1].Close)
		overnightMean += lr
		overnightSum += lr * lr
	}
	overnightMean /= float64(n - 1)
	overnightVol := (overnightSum/float64(n-1) - overnightMean*overnightMean) * float64(n) / float64(n-1)

	var openCloseSum, openCloseMean float64
	for i := 0; i < n; i++ {
		lr := math.Log(bars[i].Close / bars[i].Open)
		openCloseMean += lr
		openCloseSum += lr * lr
	}
	openCloseMean /= float64(n)
	openCloseVol := (openCloseSum/float64(n) - openCloseMean*openCloseMean) * float64(n) / float64(n-1)

	rsVol := rogersSatchellRaw(bars)

	yz := overnightVol + k*openCloseVol + (1-k)*rsVol
	if yz <= 0 {
		return 0
	}
	return math.Sqrt(yz) * math.Sqrt(tradingDaysYear)
}

// rogersSatchellRaw is the un-annualized Rogers-Satchell sum, shared by
// yangZhangVol and rogersSatchellVol, grounded on models/rogers.go.
func rogersSatchellRaw(bars []models.Candle) float64 {
	n := len(bars)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars {
		sum += math.Log(b.High/b.Close)*math.Log(b.High/b.Open) +
			math.Log(b.Low/b.Close)*math.Log(b.Low/b.Open)
	}
	return sum / float64(n)
}

func rogersSatchellVol(bars []models.Candle) float64 {
	raw := rogersSatchellRaw(bars)
	if raw <= 0 {
		return 0
	}
	return math.Sqrt(raw * tradingDaysYear)
}

// garmanKlassVol is a direct generalization of
// models/garman_klass.go's calculateGarmanKlass.
func garmanKlassVol(bars []models.Candle) float64 {
	n := len(bars)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars {
		hl := 0.5 * math.Pow(math.Log(b.High/b.Low), 2)
		co := (2*math.Ln2 - 1) * math.Pow(math.Log(b.Close/b.Open), 2)
		sum += hl - co
	}
	if sum <= 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n) * tradingDaysYear)
}
