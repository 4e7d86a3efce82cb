package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumtrio/kptsignal/internal/factories"
	"github.com/quantumtrio/kptsignal/internal/models"
	"github.com/quantumtrio/kptsignal/internal/signal"
)

func testSnapshot(t *testing.T) *signal.Snapshot {
	t.Helper()
	gen := factories.NewGenerator(42)
	restaurants := gen.Restaurants(10)
	records := gen.TimingRecords(restaurants, 100)
	return signal.BuildSnapshot(restaurants, records, 42, "synthetic")
}

func TestSchemaFor(t *testing.T) {
	for _, topic := range Topics {
		rec, err := SchemaFor(topic)
		require.NoError(t, err)
		assert.NotNil(t, rec)
	}

	_, err := SchemaFor("no_such_topic")
	assert.Error(t, err)
}

func TestRecordsFor(t *testing.T) {
	snap := testSnapshot(t)

	rows, err := RecordsFor(TopicEnrichedOrders, snap)
	require.NoError(t, err)
	assert.Len(t, rows, len(snap.Orders))

	rows, err = RecordsFor(TopicRestaurantProfiles, snap)
	require.NoError(t, err)
	require.Len(t, rows, len(snap.Profiles))
	// profiles come out in id order
	prev := 0
	for _, row := range rows {
		rec, ok := row.(RestaurantProfileRecord)
		require.True(t, ok)
		assert.Greater(t, int(rec.RestaurantID), prev)
		prev = int(rec.RestaurantID)
	}

	rows, err = RecordsFor(TopicCityAnalytics, snap)
	require.NoError(t, err)
	assert.Len(t, rows, len(snap.CityAnalytics))

	rows, err = RecordsFor(TopicHourlyPatterns, snap)
	require.NoError(t, err)
	assert.Len(t, rows, 24)

	_, err = RecordsFor("no_such_topic", snap)
	assert.Error(t, err)
}

func TestEnrichedOrderRecordRoundTrip(t *testing.T) {
	confirm := time.Date(2026, 2, 1, 10, 0, 0, 0, time.Local)
	assigned := confirm.Add(12 * time.Minute)
	order := models.EnrichedOrder{
		OrderID:           "ord_00001",
		RestaurantID:      7,
		RestaurantName:    "Spice Hub",
		City:              "Pune",
		CityTier:          2,
		ConfirmTime:       confirm,
		MerchantReadyTime: confirm.Add(15 * time.Minute),
		ActualReadyTime:   confirm.Add(18 * time.Minute),
		RiderAssignedTime: &assigned,
		RiderArrivalTime:  confirm.Add(20 * time.Minute),
		PickupTime:        confirm.Add(25 * time.Minute),
		TrueKPTMinutes:    18,
		MarkedKPTMinutes:  15,
		ForBiasMinutes:    -3,
		MerchantBiasType:  models.BiasPeakManipulator,
	}

	rec := NewEnrichedOrderRecord(order)
	assert.Equal(t, confirm.Unix(), rec.ConfirmTime)
	require.NotNil(t, rec.RiderAssignedTime)
	assert.Equal(t, assigned.Unix(), *rec.RiderAssignedTime)
	assert.Nil(t, rec.OrderTime)

	// the JSON rendering is what every sink receives
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded EnrichedOrderRecord
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, rec, decoded)
}
