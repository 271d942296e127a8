package calibrate

import (
	"gonum.org/v1/gonum/stat"

	"github.com/bcdannyboy/fairbtc/models"
)

// regimeWindow is the number of trailing minute returns the heuristic
// classifier scores, per §4.6.
const regimeWindow = 20

// minRegimeReturns is the shortest trailing window the classifier will
// score; below it §4.6 mandates the even-odds fallback.
const minRegimeReturns = 10

// classifyRegime implements §4.6's literal heuristic over the trailing
// regimeWindow minute returns: bullScore = (mean > 0 ? 0.6 : 0.4) +
// (vol < 0.02 ? 0.2 : 0); bearScore = 1 - bullScore; current = argmax. Fewer
// than minRegimeReturns returns emits {BULL, [0.5,0.5]}. This is a
// heuristic, not an HMM posterior: fitting the HMM's own filter would need
// far more history than a single pricing request carries.
func classifyRegime(minuteCloses []float64) models.RegimeClassification {
	rets := logReturns(minuteCloses)
	if len(rets) > regimeWindow {
		rets = rets[len(rets)-regimeWindow:]
	}
	if len(rets) < minRegimeReturns {
		return models.RegimeClassification{Current: models.RegimeBull, Probabilities: [2]float64{0.5, 0.5}}
	}

	mean, vol := stat.MeanStdDev(rets, nil)

	bullScore := 0.4
	if mean > 0 {
		bullScore = 0.6
	}
	if vol < 0.02 {
		bullScore += 0.2
	}
	bearScore := 1 - bullScore

	label := models.RegimeBull
	if bearScore > bullScore {
		label = models.RegimeBear
	}

	return models.RegimeClassification{Current: label, Probabilities: [2]float64{bullScore, bearScore}}
}
