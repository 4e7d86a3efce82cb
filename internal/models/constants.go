package models

const (
	BiasReliable        = "reliable"
	BiasRiderTriggered  = "rider_triggered"
	BiasSystematicDelay = "systematic_delay"
	BiasPeakManipulator = "peak_manipulator"
	BiasUnknown         = "unknown"

	SignalQualityHigh   = "HIGH"
	SignalQualityMedium = "MEDIUM"
	SignalQualityLow    = "LOW"
)

// BiasTypes lists every label the classifiers can emit, in display order.
var BiasTypes = []string{
	BiasReliable,
	BiasRiderTriggered,
	BiasSystematicDelay,
	BiasPeakManipulator,
}

// PeakHours are the lunch and dinner rush slots. An order whose confirm
// hour falls in this set is flagged peak unless the source record says
// otherwise.
var PeakHours = map[int]bool{
	12: true,
	13: true,
	19: true,
	20: true,
	21: true,
}
