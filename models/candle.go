package models

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/fairbtc/fairbtcerr"
)

// Candle is a single OHLCV bar. TimeMS is milliseconds since epoch,
// matching the teacher's external quote-history feed shape
// (tradier/types.go: QuoteHistory.History.Day), generalized from a daily
// bar to any granularity.
type Candle struct {
	TimeMS int64
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the single-candle OHLC invariant of §3:
// low <= min(open,close) <= max(open,close) <= high.
func (c Candle) Validate() error {
	lo := math.Min(c.Open, c.Close)
	hi := math.Max(c.Open, c.Close)
	if c.Low > lo || hi > c.High {
		return fmt.Errorf("%w: candle OHLC invariant violated at t=%d", fairbtcerr.InvalidInput, c.TimeMS)
	}
	return nil
}

// ValidateSeries checks every candle and that time is non-decreasing
// across the series.
func ValidateSeries(candles []Candle) error {
	var prev int64 = -1
	for _, c := range candles {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.TimeMS < prev {
			return fmt.Errorf("%w: candle series must be time-ordered", fairbtcerr.InvalidInput)
		}
		prev = c.TimeMS
	}
	return nil
}
