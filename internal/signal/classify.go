package signal

import (
	"math"

	"github.com/quantumtrio/kptsignal/internal/models"
)

// ClassifyOrderBias labels a single order from its for-bias and prep-gap
// signals. Rules are evaluated in priority order; the first match wins and
// peak_manipulator is the catch-all. Total: every input pair maps to
// exactly one label.
func ClassifyOrderBias(forBias, prepGap float64) string {
	switch {
	case math.Abs(forBias) < 1.5:
		return models.BiasReliable
	case math.Abs(prepGap) < 0.5 && forBias > 2:
		return models.BiasRiderTriggered
	case forBias > 3:
		return models.BiasSystematicDelay
	default:
		return models.BiasPeakManipulator
	}
}

// ClassifyAggregateBias labels a restaurant from the mean and sample
// standard deviation of its per-order bias. The thresholds and rule order
// deliberately differ from ClassifyOrderBias; the two ladders were
// calibrated independently and are kept separate.
func ClassifyAggregateBias(meanBias, stdevBias float64) string {
	switch {
	case math.Abs(meanBias) < 1.5:
		return models.BiasReliable
	case meanBias > 0 && stdevBias < 3:
		return models.BiasSystematicDelay
	case meanBias > 3:
		return models.BiasRiderTriggered
	default:
		return models.BiasPeakManipulator
	}
}
