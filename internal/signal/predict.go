package signal

import (
	"fmt"
	"math"

	"github.com/quantumtrio/kptsignal/internal/models"
)

// PredictInput carries the live context for one estimate. DistanceKm is
// accepted for interface parity with the dispatcher but does not enter
// the formula.
type PredictInput struct {
	RestaurantID int     `json:"restaurant_id"`
	ActiveOrders int     `json:"active_orders"`
	StaffCount   int     `json:"staff_count"`
	PeakHour     int     `json:"peak_hour"`
	DistanceKm   float64 `json:"distance_km"`
}

// Predict combines a restaurant's historical reliability with the live
// load context into a point estimate of kitchen prep time. A closed-form
// heuristic, deliberately explainable: no model, no feedback loop.
func Predict(in PredictInput, profiles map[int]models.RestaurantProfile, restaurants map[int]models.Restaurant) models.Prediction {
	profile, hasProfile := profiles[in.RestaurantID]
	restaurant, hasRestaurant := restaurants[in.RestaurantID]

	city := "Mumbai"
	name := "Unknown"
	if hasRestaurant {
		city = restaurant.City
		name = restaurant.Name
	}
	ci := models.CityInfoFor(city)

	relScore := 0.5
	avgBias := 0.0
	quality := models.SignalQualityMedium
	biasType := models.BiasUnknown
	if hasProfile {
		relScore = profile.ReliabilityScore
		avgBias = profile.AvgForBias
		quality = profile.SignalQuality
		biasType = profile.DetectedBiasType
	}

	loadIndex := float64(in.ActiveOrders) / float64(max(in.StaffCount, 1))
	rawKPT := 12 + loadIndex*3 + float64(in.PeakHour)*6 + ci.CongestionBase*4
	corrected := rawKPT * (1 - relScore*0.3)
	finalKPT := round1(math.Max(5, corrected-avgBias*0.7))

	peakFactor := 1.0
	if in.PeakHour != 0 {
		peakFactor = 1.3
	}
	rushIndex := round2(loadIndex * (1 + ci.CongestionBase) * peakFactor)
	dispatchOffset := round1(finalKPT - 3)

	return models.Prediction{
		RestaurantID:                   in.RestaurantID,
		RestaurantName:                 name,
		City:                           city,
		RawKPTMinutes:                  round1(rawKPT),
		CorrectedKPTMinutes:            finalKPT,
		ConfidenceScore:                round2(1 - relScore),
		SignalQuality:                  quality,
		DetectedBiasType:               biasType,
		RushIndex:                      rushIndex,
		LoadIndex:                      round2(loadIndex),
		RecommendedRiderDispatchOffset: dispatchOffset,
		ETARecommendation:              fmt.Sprintf("Dispatch rider %.1f mins after order confirmation", dispatchOffset),
	}
}
