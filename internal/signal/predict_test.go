package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantumtrio/kptsignal/internal/models"
)

func TestPredict(t *testing.T) {
	profiles := map[int]models.RestaurantProfile{
		8: {
			RestaurantID:     8,
			ReliabilityScore: 0.4,
			AvgForBias:       2.0,
			SignalQuality:    models.SignalQualityMedium,
			DetectedBiasType: models.BiasSystematicDelay,
		},
	}

	got := Predict(PredictInput{
		RestaurantID: 8,
		ActiveOrders: 6,
		StaffCount:   3,
		PeakHour:     1,
		DistanceKm:   4.0,
	}, profiles, testRestaurants())

	assert.Equal(t, 8, got.RestaurantID)
	assert.Equal(t, "Dragon Bowl", got.RestaurantName)
	assert.Equal(t, "Mumbai", got.City)

	// load 2.0; raw = 12 + 6 + 6 + 0.8*4 = 27.2
	assert.Equal(t, 2.0, got.LoadIndex)
	assert.Equal(t, 27.2, got.RawKPTMinutes)
	// corrected = 27.2*0.88 = 23.936; final = 23.936 - 1.4 = 22.536
	assert.Equal(t, 22.5, got.CorrectedKPTMinutes)
	assert.Equal(t, 0.6, got.ConfidenceScore)
	assert.Equal(t, models.SignalQualityMedium, got.SignalQuality)
	assert.Equal(t, models.BiasSystematicDelay, got.DetectedBiasType)
	// 2.0 * 1.8 * 1.3
	assert.Equal(t, 4.68, got.RushIndex)
	assert.Equal(t, 19.5, got.RecommendedRiderDispatchOffset)
	assert.Equal(t, "Dispatch rider 19.5 mins after order confirmation", got.ETARecommendation)
}

func TestPredictUnknownRestaurant(t *testing.T) {
	got := Predict(PredictInput{
		RestaurantID: 999,
		ActiveOrders: 5,
		StaffCount:   3,
	}, map[int]models.RestaurantProfile{}, map[int]models.Restaurant{})

	assert.Equal(t, "Unknown", got.RestaurantName)
	assert.Equal(t, "Mumbai", got.City)
	assert.Equal(t, models.SignalQualityMedium, got.SignalQuality)
	assert.Equal(t, models.BiasUnknown, got.DetectedBiasType)
	// reliability falls back to 0.5
	assert.Equal(t, 0.5, got.ConfidenceScore)

	// load 1.67; raw = 12 + 5 + 0 + 3.2 = 20.2 with Mumbai congestion
	assert.Equal(t, 1.67, got.LoadIndex)
	assert.InDelta(t, 20.2, got.RawKPTMinutes, 0.01)
}

func TestPredictFloor(t *testing.T) {
	profiles := map[int]models.RestaurantProfile{
		7: {ReliabilityScore: 0.9, AvgForBias: 30},
	}
	got := Predict(PredictInput{RestaurantID: 7, ActiveOrders: 1, StaffCount: 5}, profiles, testRestaurants())
	// corrected minus bias drops below the floor
	assert.Equal(t, 5.0, got.CorrectedKPTMinutes)
	assert.Equal(t, 2.0, got.RecommendedRiderDispatchOffset)
}

func TestPredictStaffGuard(t *testing.T) {
	got := Predict(PredictInput{RestaurantID: 1, ActiveOrders: 4, StaffCount: 0}, nil, nil)
	assert.Equal(t, 4.0, got.LoadIndex)
}

func TestPredictNoPeakNoRushBoost(t *testing.T) {
	got := Predict(PredictInput{RestaurantID: 7, ActiveOrders: 3, StaffCount: 3, PeakHour: 0}, nil, testRestaurants())
	// Pune congestion 0.6: 1.0 * 1.6 * 1.0
	assert.Equal(t, 1.6, got.RushIndex)
}
