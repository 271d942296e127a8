// Command simcli is the CLI driver (C11): it calibrates SimInputs from a
// candle history file, runs the Monte Carlo pricer with an mpb progress
// bar, and prints the result as JSON, grounded on the teacher's main.go
// (godotenv load, xhhuango/json marshal-to-file) generalized from a
// credit-spread scan to a single pricing request.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	xjson "github.com/xhhuango/json"

	"github.com/bcdannyboy/fairbtc/cache"
	"github.com/bcdannyboy/fairbtc/calibrate"
	"github.com/bcdannyboy/fairbtc/config"
	"github.com/bcdannyboy/fairbtc/job"
	"github.com/bcdannyboy/fairbtc/models"
	"github.com/bcdannyboy/fairbtc/notify"
	"github.com/bcdannyboy/fairbtc/simulate"
)

func main() {
	var (
		candlePath = flag.String("candles", "", "path to a JSON array of {time_ms,open,high,low,close,volume} candles")
		above      = flag.Float64("above", 0, "price target: probability BTC is above this strike at horizon")
		rangeLo    = flag.Float64("range-lo", 0, "lower bound of a range target")
		rangeHi    = flag.Float64("range-hi", 0, "upper bound of a range target")
		horizon    = flag.Float64("horizon", 24, "horizon in hours")
		dt         = flag.Float64("dt", 1, "per-step size in hours")
		n          = flag.Int("n", 100000, "number of Monte Carlo paths")
		batches    = flag.Int("batches", 10, "number of progress-reporting batches")
		retainDist = flag.Bool("distribution", false, "attach a terminal-price distribution summary")
		slackMode  = flag.Bool("slack", false, "start the /price Slack slash-command front end instead of pricing once")
		volMult    = flag.Float64("vol-mult", 0, "sensitivity override: volatility multiplier in [0.9,1.1], theta scales by its square (0 = use config default)")
		jumpIMult  = flag.Float64("jump-intensity-mult", 0, "sensitivity override: jump lambda multiplier in [0.9,1.1] (0 = use config default)")
		jumpSMult  = flag.Float64("jump-size-mult", 0, "sensitivity override: jump sigma_j multiplier in [0.9,1.1] (0 = use config default)")
	)
	flag.Parse()

	cfg := config.Load()
	overrides := cfg.Overrides
	if *volMult != 0 {
		overrides.VolMult = *volMult
	}
	if *jumpIMult != 0 {
		overrides.JumpIntensityMult = *jumpIMult
	}
	if *jumpSMult != 0 {
		overrides.JumpSizeMult = *jumpSMult
	}
	overrides = overrides.Normalize()

	candles, err := loadCandles(*candlePath)
	if err != nil {
		log.Fatalf("loading candles: %v", err)
	}

	numCPU := runtime.GOMAXPROCS(0)
	if counts, err := cpu.Counts(true); err == nil {
		log.Printf("simcli: %d logical CPUs reported by gopsutil, GOMAXPROCS=%d", counts, numCPU)
	}

	resultCache := cache.New(cfg.CacheCap, cfg.CacheTTL)
	ctrl := job.NewController(resultCache, cfg.Overrides)

	factory := buildInputsFactory(candles, *dt)

	if *slackMode {
		runSlack(cfg, ctrl, factory)
		return
	}

	target, err := targetFromFlags(*above, *rangeLo, *rangeHi)
	if err != nil {
		log.Fatal(err)
	}

	s0, inputs, err := factory(*horizon)
	if err != nil {
		log.Fatalf("calibration: %v", err)
	}

	bar := newProgressBar(*batches)

	req := job.Request{
		Market:  "BTC",
		S0:      s0,
		Horizon: *horizon,
		Inputs:  inputs,
		Target:  target,
		Opts: simulate.Opts{
			N:                  *n,
			Batches:            *batches,
			BaseSeed:           cfg.BaseSeed,
			RetainDistribution: *retainDist,
		},
		Overrides: overrides,
	}

	_, events := ctrl.Submit(context.Background(), req)

	var result models.SimResult
	var runErr error
	for evt := range events {
		switch evt.Kind {
		case models.EventProgress:
			bar.SetCurrent(int64(evt.Progress.BatchesComplete))
		case models.EventComplete:
			result = evt.Result
			bar.SetCurrent(int64(*batches))
		case models.EventError, models.EventCancelled:
			runErr = evt.Err
		}
	}
	bar.Wait()

	if runErr != nil {
		log.Fatalf("simulation failed: %v", runErr)
	}

	out, err := xjson.Marshal(result)
	if err != nil {
		log.Fatalf("marshalling result: %v", err)
	}
	fmt.Println(string(out))
}

func newProgressBar(total int) *mpb.Bar {
	p := mpb.New(mpb.WithWidth(64))
	return p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Pricing"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d batches)", decor.WCSyncSpace),
		),
	)
}

func targetFromFlags(above, rangeLo, rangeHi float64) (models.Target, error) {
	if rangeLo > 0 || rangeHi > 0 {
		return models.Range(rangeLo, rangeHi), nil
	}
	if above > 0 {
		return models.Above(above), nil
	}
	return models.Target{}, fmt.Errorf("one of -above or -range-lo/-range-hi must be set")
}

func loadCandles(path string) ([]models.Candle, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var candles []models.Candle
	if err := json.NewDecoder(f).Decode(&candles); err != nil {
		return nil, err
	}
	return candles, nil
}

// buildInputsFactory closes over the candle history and step size to
// produce a notify.InputsFactory / per-horizon SimInputs builder shared by
// the one-shot CLI path and the Slack front end.
func buildInputsFactory(candles []models.Candle, dt float64) notify.InputsFactory {
	hmm := models.HMM{
		P:   [2][2]float64{{0.97, 0.03}, {0.05, 0.95}},
		Pi0: [2]float64{0.5, 0.5},
	}

	return func(horizonHours float64) (float64, models.SimInputs, error) {
		calib := calibrate.Calibrate(candles)

		s0 := 0.0
		if n := len(candles); n > 0 {
			s0 = candles[n-1].Close
		} else {
			s0 = 65000 // documented fallback spot when no history is supplied
		}

		inputs := models.SimInputs{
			S0:              s0,
			T:               horizonHours,
			Dt:              dt,
			Regimes:         calib.Heston,
			HMM:             hmm,
			Jumps:           calib.Jumps,
			CompensateJumps: false,
		}
		if err := inputs.Validate(); err != nil {
			return 0, models.SimInputs{}, err
		}
		return s0, inputs, nil
	}
}

func runSlack(cfg config.Config, ctrl *job.Controller, factory notify.InputsFactory) {
	if cfg.SlackBotToken == "" || cfg.SlackAppToken == "" {
		log.Fatal("simcli: -slack requires SLACK_BOT_TOKEN and SLACK_APP_TOKEN")
	}
	bot := notify.NewBot(cfg.SlackAppToken, cfg.SlackBotToken, ctrl, factory)
	if err := bot.Start(); err != nil {
		log.Fatalf("simcli: slack bot exited: %v", err)
	}
}
