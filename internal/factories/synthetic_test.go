package factories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumtrio/kptsignal/internal/models"
)

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)

	restA := a.Restaurants(50)
	restB := b.Restaurants(50)
	require.Equal(t, restA, restB)

	assert.Equal(t, a.TimingRecords(restA, 200), b.TimingRecords(restB, 200))
}

func TestGeneratorSeedsDiffer(t *testing.T) {
	a := NewGenerator(1).Restaurants(20)
	b := NewGenerator(2).Restaurants(20)
	assert.NotEqual(t, a, b)
}

func TestRestaurants(t *testing.T) {
	restaurants := NewGenerator(42).Restaurants(100)
	require.Len(t, restaurants, 100)

	for i, r := range restaurants {
		assert.Equal(t, i+1, r.ID)
		assert.NotEmpty(t, r.Name)

		ci, known := models.Cities[r.City]
		require.True(t, known, "city %q not in reference table", r.City)
		assert.Equal(t, ci.Tier, r.CityTier)

		assert.GreaterOrEqual(t, r.Rating, 2.5)
		assert.LessOrEqual(t, r.Rating, 5.0)
	}
}

func TestTimingRecords(t *testing.T) {
	gen := NewGenerator(42)
	restaurants := gen.Restaurants(10)
	records := gen.TimingRecords(restaurants, 200)
	require.Len(t, records, 200)

	layout := "2006-01-02 15:04:05"
	for _, rec := range records {
		assert.NotEmpty(t, rec.OrderID)
		assert.GreaterOrEqual(t, rec.RestaurantID, 1)
		assert.LessOrEqual(t, rec.RestaurantID, 10)

		require.NotNil(t, rec.ConfirmTime)
		confirm, err := time.ParseInLocation(layout, *rec.ConfirmTime, time.Local)
		require.NoError(t, err)

		require.NotNil(t, rec.ActualReadyTime)
		actualReady, err := time.ParseInLocation(layout, *rec.ActualReadyTime, time.Local)
		require.NoError(t, err)

		require.NotNil(t, rec.RiderArrivalTime)
		arrival, err := time.ParseInLocation(layout, *rec.RiderArrivalTime, time.Local)
		require.NoError(t, err)

		require.NotNil(t, rec.PickupTime)
		pickup, err := time.ParseInLocation(layout, *rec.PickupTime, time.Local)
		require.NoError(t, err)

		// kitchen chain stays ordered: confirm -> ready, arrival -> pickup
		assert.True(t, actualReady.After(confirm))
		assert.False(t, pickup.Before(arrival))
		assert.False(t, pickup.Before(actualReady))

		trueKPT := actualReady.Sub(confirm).Minutes()
		assert.GreaterOrEqual(t, trueKPT, 8.0)
		assert.LessOrEqual(t, trueKPT, 43.0)

		require.NotNil(t, rec.ActiveOrders)
		assert.GreaterOrEqual(t, *rec.ActiveOrders, 2)
		require.NotNil(t, rec.StaffCount)
		assert.GreaterOrEqual(t, *rec.StaffCount, 1)
	}
}
