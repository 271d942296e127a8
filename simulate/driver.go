// Package simulate implements the Monte Carlo driver (C4) and terminal
// distribution summarizer (C5): it orchestrates N paths across B batches,
// accumulates hit statistics, streams progress snapshots in batch order,
// and honors cooperative cancellation between batches, per §4.4/§5.
package simulate

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/bcdannyboy/fairbtc/fairbtcerr"
	"github.com/bcdannyboy/fairbtc/models"
	"github.com/bcdannyboy/fairbtc/pricing"
	"github.com/bcdannyboy/fairbtc/rng"
)

const (
	defaultBatches      = 10
	defaultSampleCap    = 15
	defaultSamplePoints = 60
	maxFaultRetries     = 4
	faultToleranceFrac  = 0.01
)

// Opts controls a single RunSimulation call.
type Opts struct {
	N                  int
	Batches            int  // default 10
	BaseSeed           uint64
	RetainDistribution bool // build a DistributionSummary (§4.5) on the result
	SampleCap          int  // default 15
	SamplePoints       int  // default 60
	Workers            int  // default runtime.GOMAXPROCS(0); paths-within-a-batch fan-out per §5
	OnProgress         func(models.ProgressSnapshot)
}

func (o Opts) withDefaults() Opts {
	if o.Batches <= 0 {
		o.Batches = defaultBatches
	}
	if o.SampleCap <= 0 {
		o.SampleCap = defaultSampleCap
	}
	if o.SamplePoints <= 0 {
		o.SamplePoints = defaultSamplePoints
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// RunSimulation is the C4 Monte Carlo driver. It returns fairbtcerr.Cancelled
// if ctx is done between batches (no partial result, no cache write by the
// caller), or fairbtcerr.NumericalFault if more than 1% of paths faulted.
func RunSimulation(ctx context.Context, inputs models.SimInputs, target models.Target, opts Opts) (models.SimResult, error) {
	if err := inputs.Validate(); err != nil {
		return models.SimResult{}, err
	}
	if err := target.Validate(); err != nil {
		return models.SimResult{}, err
	}
	opts = opts.withDefaults()

	sizes := partition(opts.N, opts.Batches)

	var cumHits, cumN, faults int
	var sumX, sumXX float64
	minP, maxP := math.Inf(1), math.Inf(-1)
	var retained []models.PathSample
	var terminals []float64
	var diag models.Diagnostics
	var convergence []models.ConvergencePoint

	needSamples := opts.RetainDistribution
	needTerminals := opts.RetainDistribution

	for batchIdx, size := range sizes {
		select {
		case <-ctx.Done():
			return models.SimResult{}, fairbtcerr.Cancelled
		default:
		}

		br := runBatch(opts.BaseSeed, batchIdx, size, opts.Workers, inputs, target, needSamples && len(retained) < opts.SampleCap)

		cumHits += br.hits
		cumN += size
		sumX += br.sumX
		sumXX += br.sumXX
		faults += br.faults
		if br.minP < minP {
			minP = br.minP
		}
		if br.maxP > maxP {
			maxP = br.maxP
		}
		if needSamples {
			for _, s := range br.samples {
				if len(retained) >= opts.SampleCap {
					break
				}
				retained = append(retained, s)
			}
		}
		if needTerminals {
			terminals = append(terminals, br.terminals...)
		}
		diag.VarianceClamped += br.diag.VarianceClamped
		diag.DisplacementClamped += br.diag.DisplacementClamped
		diag.CompensatorApplied = diag.CompensatorApplied || br.diag.CompensatorApplied
		diag.KouUsed = diag.KouUsed || br.diag.KouUsed

		p, ci, _, _ := pricing.Price(cumHits, cumN, pricing.Z95)
		convergence = append(convergence, models.ConvergencePoint{CumulativeN: cumN, RunningP: p})

		if opts.OnProgress != nil {
			opts.OnProgress(models.ProgressSnapshot{
				CumulativeN:     cumN,
				CumulativeHits:  cumHits,
				RunningP:        p,
				RunningCI:       ci,
				BatchesComplete: batchIdx + 1,
				BatchesTotal:    opts.Batches,
			})
		}
	}

	if cumN > 0 && float64(faults)/float64(cumN) > faultToleranceFrac {
		return models.SimResult{}, fmt.Errorf("%w: %d/%d paths faulted", fairbtcerr.NumericalFault, faults, cumN)
	}

	p, ci, stderr, fair := pricing.Price(cumHits, cumN, pricing.Z95)
	diag.StdErr = stderr
	diag.N = cumN
	diag.NumericalFaults = faults
	diag.Convergence = convergence
	diag.RegimeOccupancy = inputs.HMM.StationaryDistribution()

	result := models.SimResult{
		Target:      target,
		P:           p,
		CI:          ci,
		FairCents:   fair,
		Diagnostics: diag,
	}

	if opts.RetainDistribution && len(terminals) > 0 {
		result.Distribution = BuildSummary(terminals, retained, opts.SamplePoints)
	}

	return result, nil
}

// partition splits n into b batches of ceil(n/b), the last absorbing the
// remainder, per §4.4.
func partition(n, b int) []int {
	if b <= 0 {
		b = 1
	}
	per := (n + b - 1) / b
	sizes := make([]int, 0, b)
	assigned := 0
	for i := 0; i < b; i++ {
		size := per
		if i == b-1 || assigned+size > n {
			size = n - assigned
		}
		if size > 0 {
			sizes = append(sizes, size)
			assigned += size
		}
	}
	return sizes
}

type batchResult struct {
	hits            int
	sumX, sumXX     float64
	minP, maxP      float64
	samples         []models.PathSample
	terminals       []float64
	faults          int
	diag            models.PathDiagnostics
}

// runBatch fans a batch's paths out across opts.Workers goroutines, each
// with its own deterministic stream keyed on (baseSeed, batchIdx,
// threadIdx), the same worker-per-GOMAXPROCS shape as the teacher's
// models.HestonModel.SimulatePricesBatch. Partial results are reduced in
// fixed worker-index order so the floating-point summation order — and
// therefore the bit-exact result — does not depend on goroutine scheduling.
func runBatch(baseSeed uint64, batchIdx, size, workers int, inputs models.SimInputs, target models.Target, retainSamples bool) batchResult {
	if workers > size {
		workers = size
	}
	if workers < 1 {
		workers = 1
	}

	perWorker := partition(size, workers)
	partials := make([]batchResult, len(perWorker))

	done := make(chan int, len(perWorker))
	for w, count := range perWorker {
		go func(w, count int) {
			stream := rng.NewStream(baseSeed, batchIdx, w)
			partials[w] = runPaths(stream, count, inputs, target, retainSamples)
			done <- w
		}(w, count)
	}
	for range perWorker {
		<-done
	}

	agg := batchResult{minP: math.Inf(1), maxP: math.Inf(-1)}
	for _, pr := range partials {
		agg.hits += pr.hits
		agg.sumX += pr.sumX
		agg.sumXX += pr.sumXX
		agg.faults += pr.faults
		if pr.minP < agg.minP {
			agg.minP = pr.minP
		}
		if pr.maxP > agg.maxP {
			agg.maxP = pr.maxP
		}
		agg.samples = append(agg.samples, pr.samples...)
		agg.terminals = append(agg.terminals, pr.terminals...)
		agg.diag.VarianceClamped += pr.diag.VarianceClamped
		agg.diag.DisplacementClamped += pr.diag.DisplacementClamped
		agg.diag.CompensatorApplied = agg.diag.CompensatorApplied || pr.diag.CompensatorApplied
		agg.diag.KouUsed = agg.diag.KouUsed || pr.diag.KouUsed
	}
	return agg
}

// runPaths draws count paths from stream sequentially, collecting hits and
// terminal-price moments. A NaN/Inf path (NumericalFault) is redrawn from the
// next draws of the same stream, with at most maxFaultRetries attempts in
// all; a path whose every attempt faults is dropped and counts as no hit.
func runPaths(stream *rng.Stream, count int, inputs models.SimInputs, target models.Target, retainSamples bool) batchResult {
	kernel := models.NewKernel(inputs)
	res := batchResult{minP: math.Inf(1), maxP: math.Inf(-1)}
	if retainSamples {
		res.samples = make([]models.PathSample, 0, count)
	}
	res.terminals = make([]float64, 0, count)

	for i := 0; i < count; i++ {
		var terminal float64
		var sample models.PathSample
		ok := false
		for attempt := 0; attempt < maxFaultRetries; attempt++ {
			t, s, diag := kernel.SimulatePath(stream, models.SimulatePathOpts{RetainSample: retainSamples})
			res.diag.VarianceClamped += diag.VarianceClamped
			res.diag.DisplacementClamped += diag.DisplacementClamped
			res.diag.CompensatorApplied = res.diag.CompensatorApplied || diag.CompensatorApplied
			res.diag.KouUsed = res.diag.KouUsed || diag.KouUsed
			if diag.NumericalFault {
				res.faults++
				continue
			}
			terminal, sample, ok = t, s, true
			break
		}
		if !ok {
			continue
		}
		if target.Evaluate(terminal) {
			res.hits++
		}
		res.sumX += terminal
		res.sumXX += terminal * terminal
		if terminal < res.minP {
			res.minP = terminal
		}
		if terminal > res.maxP {
			res.maxP = terminal
		}
		if retainSamples {
			res.samples = append(res.samples, sample)
		}
		res.terminals = append(res.terminals, terminal)
	}
	return res
}
