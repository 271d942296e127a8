// Package fairbtcerr defines the sentinel error kinds the engine surfaces
// to callers, per the error handling design.
package fairbtcerr

import "errors"

// InvalidInput means a parameter violates a data-model invariant. Surfaced
// directly to the caller; never retried.
var InvalidInput = errors.New("invalid input")

// CalibrationInputUnavailable means the candle series handed to the
// calibrator could not be used. The calibrator absorbs this into a
// degraded default bundle rather than propagating it.
var CalibrationInputUnavailable = errors.New("calibration input unavailable")

// NumericalFault means a path step produced NaN/Inf. A single fault is
// recovered by discarding the path; too many faults fail the job.
var NumericalFault = errors.New("numerical fault")

// Cancelled means cooperative cancellation completed before a result was
// produced.
var Cancelled = errors.New("job cancelled")
