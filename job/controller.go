// Package job implements the submit/cancel/events job controller (C9):
// a single active simulation job at a time, cancel-and-replace semantics
// on a new submission, and a tagged {Progress, Complete, Error, Cancelled}
// event stream per job, per §5.
package job

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/bcdannyboy/fairbtc/cache"
	"github.com/bcdannyboy/fairbtc/models"
	"github.com/bcdannyboy/fairbtc/simulate"
)

// Request bundles everything Submit needs to start a run. Overrides is the
// §6 sensitivity what-if knob set; its zero value normalizes to "no
// adjustment" (every multiplier 1.0).
type Request struct {
	Market    string
	S0        float64
	Horizon   float64 // hours, for the cache fingerprint
	Inputs    models.SimInputs
	Target    models.Target
	Opts      simulate.Opts
	Overrides models.SensitivityOverrides
}

// activeJob tracks the one simulation the controller currently owns.
type activeJob struct {
	id     uuid.UUID
	cancel context.CancelFunc
}

// Controller runs at most one simulation job at a time. Submitting a new
// job cancels whatever job is currently active before starting the new
// one, per §5's cancel-and-replace rule.
type Controller struct {
	mu               sync.Mutex
	active           *activeJob
	cache            *cache.Cache
	defaultOverrides models.SensitivityOverrides
}

// NewController builds a job controller backed by the given result cache and
// default sensitivity overrides (typically C10's config defaults). A nil
// cache disables caching entirely (every submission runs fresh). A Request
// whose Overrides is the zero value falls back to defaultOverrides, per §6's
// "sourced from C10 when not supplied by the caller explicitly."
func NewController(c *cache.Cache, defaultOverrides models.SensitivityOverrides) *Controller {
	return &Controller{cache: c, defaultOverrides: defaultOverrides.Normalize()}
}

// Submit cancels any currently-active job, then starts req as the new
// active job. It returns the new job's ID immediately and a buffered
// channel of JobEvents that the caller drains; the channel is closed after
// the terminal event (Complete, Error, or Cancelled) is sent.
func (c *Controller) Submit(ctx context.Context, req Request) (uuid.UUID, <-chan models.JobEvent) {
	c.mu.Lock()
	if c.active != nil {
		c.active.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	id := uuid.New()
	c.active = &activeJob{id: id, cancel: cancel}
	c.mu.Unlock()

	events := make(chan models.JobEvent, 64)
	go c.run(runCtx, id, req, events)
	return id, events
}

// Cancel cancels jobID if it is still the active job. It is a no-op
// (returns false) if jobID has already finished or been superseded.
func (c *Controller) Cancel(jobID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.active.id != jobID {
		return false
	}
	c.active.cancel()
	return true
}

func (c *Controller) run(ctx context.Context, id uuid.UUID, req Request, events chan models.JobEvent) {
	defer close(events)
	defer c.clearIfActive(id)

	overrides := req.Overrides
	if overrides == (models.SensitivityOverrides{}) {
		overrides = c.defaultOverrides
	}
	overrides = overrides.Normalize()

	var fp cache.Fingerprint
	if c.cache != nil {
		fp = cache.NewFingerprint(req.Market, req.S0, req.Horizon, req.Target, overrides)
		if cached, ok := c.cache.Get(fp); ok {
			events <- models.JobEvent{Kind: models.EventComplete, Result: cached}
			return
		}
	}

	inputs := applySensitivity(req.Inputs, overrides)

	opts := req.Opts
	opts.OnProgress = func(p models.ProgressSnapshot) {
		select {
		case events <- models.JobEvent{Kind: models.EventProgress, Progress: p}:
		case <-ctx.Done():
		}
	}

	result, err := simulate.RunSimulation(ctx, inputs, req.Target, opts)
	switch {
	case ctx.Err() != nil:
		events <- models.JobEvent{Kind: models.EventCancelled, Err: ctx.Err()}
	case err != nil:
		events <- models.JobEvent{Kind: models.EventError, Err: err}
	default:
		if c.cache != nil {
			c.cache.Put(fp, result)
		}
		events <- models.JobEvent{Kind: models.EventComplete, Result: result}
	}
}

func (c *Controller) clearIfActive(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && c.active.id == id {
		c.active = nil
	}
}

// applySensitivity folds §6's sensitivity multipliers into inputs before the
// kernel runs: per regime, theta <- (dailyRV*volMult)^2 where dailyRV is
// taken as sqrt of that regime's already-calibrated theta; jumps.lambda <-
// lambda*jumpIntensityMult; jumps.sigma_j <- sigma_j*jumpSizeMult. o must
// already be normalized (see SensitivityOverrides.Normalize).
func applySensitivity(inputs models.SimInputs, o models.SensitivityOverrides) models.SimInputs {
	scale := func(r models.RegimeParams) models.RegimeParams {
		dailyRV := math.Sqrt(r.Heston.Theta)
		r.Heston.Theta = math.Pow(dailyRV*o.VolMult, 2)
		return r
	}
	inputs.Regimes.Bull = scale(inputs.Regimes.Bull)
	inputs.Regimes.Bear = scale(inputs.Regimes.Bear)

	inputs.Jumps.Lambda *= o.JumpIntensityMult
	inputs.Jumps.SigmaJ *= o.JumpSizeMult

	return inputs
}
