package models

// HistogramBin is one bin of the terminal-price distribution histogram,
// non-overlapping and covering [min,max] of terminal prices.
type HistogramBin struct {
	Price       float64 // bin midpoint
	Probability float64
}

// DistributionSummary is the optional terminal-price distribution
// attachment to a SimResult, per §4.5.
type DistributionSummary struct {
	Mean      float64
	StdDev    float64
	Histogram []HistogramBin
	Samples   []PathSample
}

// ConvergencePoint is one entry in a SimResult's optional convergence
// series: the running probability estimate after a given cumulative path
// count.
type ConvergencePoint struct {
	CumulativeN int
	RunningP    float64
}

// Diagnostics carries the numerical-policy and quality signals a SimResult
// is annotated with.
type Diagnostics struct {
	StdErr             float64
	N                  int
	VarianceClamped    int
	DisplacementClamped int
	NumericalFaults    int
	CompensatorApplied bool
	KouUsed            bool
	Degraded           bool // not set by RunSimulation; a substituted calibration default is flagged only in CalibrationData.Degraded
	RegimeOccupancy    RegimeOccupancy
	Convergence        []ConvergencePoint
}

// ConfidenceInterval is a closed interval [Lo, Hi] with Lo <= Hi.
type ConfidenceInterval struct {
	Lo, Hi float64
}

// SimResult is the engine's terminal output: a hit probability, confidence
// interval, fair contract value in cents, and diagnostics, per §3.
type SimResult struct {
	Target       Target
	P            float64
	CI           ConfidenceInterval
	FairCents    int
	Diagnostics  Diagnostics
	Distribution *DistributionSummary
}

// CalibrationData is the calibrator's output bundle, per §3, plus the
// supplemental YangZhang/RogersSatchell/GarmanKlass diagnostics SPEC_FULL
// adds (never fed back into the Heston/jump formulas).
type CalibrationData struct {
	DailyRV    float64
	WeeklyRV   float64
	IntradayRV float64
	Jumps      JumpParams
	Regime     RegimeClassification
	TimestampMS int64
	Degraded   bool

	Heston Regimes

	YangZhang      map[string]float64
	RogersSatchell map[string]float64
	GarmanKlass    map[string]float64
}

// RegimeClassification is the calibrator's heuristic regime call: the
// current regime and a [bullProbability, bearProbability] pair.
type RegimeClassification struct {
	Current       RegimeLabel
	Probabilities [2]float64
}

// RegimeLabel names the two HMM states for human-facing output.
type RegimeLabel int

const (
	RegimeBull RegimeLabel = iota
	RegimeBear
)

func (r RegimeLabel) String() string {
	if r == RegimeBull {
		return "BULL"
	}
	return "BEAR"
}

// ProgressEventKind tags the job-event sum type of §5/§9.
type ProgressEventKind int

const (
	EventProgress ProgressEventKind = iota
	EventComplete
	EventError
	EventCancelled
)

// ProgressSnapshot is the {cumulative_n, cumulative_hits, running_p,
// running_ci} payload of a Progress event, per §6.
type ProgressSnapshot struct {
	CumulativeN     int
	CumulativeHits  int
	RunningP        float64
	RunningCI       ConfidenceInterval
	BatchesComplete int
	BatchesTotal    int
}

// JobEvent is one tagged event in a job's {Progress, Complete, Error,
// Cancelled} stream.
type JobEvent struct {
	Kind     ProgressEventKind
	Progress ProgressSnapshot
	Result   SimResult
	Err      error
}
