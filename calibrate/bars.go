// Package calibrate turns a raw candle history into the Heston, jump, and
// regime parameters the simulation kernel needs (C6), per §4.6. Every
// estimator here is a read path: its output seeds SimInputs but is never
// fed back into pricing once a run starts.
package calibrate

import (
	"math"

	"github.com/bcdannyboy/fairbtc/models"
)

const (
	hourMS = int64(3600_000)
	dayMS  = int64(24 * 3600_000)
)

// aggregate buckets a time-ordered candle series into coarser OHLCV bars of
// width bucketMS, generalizing the teacher's period-table resampling
// (models/parkinsons.go, models/yang.go) from fixed daily bars to an
// arbitrary bucket width.
func aggregate(candles []models.Candle, bucketMS int64) []models.Candle {
	if len(candles) == 0 {
		return nil
	}
	var out []models.Candle
	var cur models.Candle
	bucketStart := int64(-1)
	open := false

	for _, c := range candles {
		b := (c.TimeMS / bucketMS) * bucketMS
		if !open || b != bucketStart {
			if open {
				out = append(out, cur)
			}
			cur = models.Candle{TimeMS: b, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume}
			bucketStart = b
			open = true
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	if open {
		out = append(out, cur)
	}
	return out
}

func closesOf(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// logReturns converts a price series into consecutive log returns.
func logReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			continue
		}
		out = append(out, math.Log(prices[i]/prices[i-1]))
	}
	return out
}
