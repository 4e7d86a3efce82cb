package signal

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/models"
)

// DeriveResult carries the enriched orders plus the count of raw records
// dropped for missing or unparseable required timestamps.
type DeriveResult struct {
	Orders  []models.EnrichedOrder
	Skipped int
}

// DeriveOrders runs the signal-derivation pass over a raw batch. Records
// missing any of the five required timestamps are skipped and counted,
// never failing the batch. The result is the immutable order set every
// aggregation pass reads.
func DeriveOrders(raw []models.RawOrder, restaurants map[int]models.Restaurant) DeriveResult {
	orders := make([]models.EnrichedOrder, 0, len(raw))
	skipped := 0

	var bar *progressbar.ProgressBar
	if len(raw) > 1000 {
		bar = progressbar.Default(int64(len(raw)), "enriching orders")
	}

	for _, r := range raw {
		if bar != nil {
			bar.Add(1)
		}
		enriched, ok := deriveOne(r, restaurants)
		if !ok {
			skipped++
			continue
		}
		orders = append(orders, enriched)
	}

	zap.L().Info("orders enriched",
		zap.Int("enriched", len(orders)),
		zap.Int("skipped", skipped),
	)
	return DeriveResult{Orders: orders, Skipped: skipped}
}

func deriveOne(r models.RawOrder, restaurants map[int]models.Restaurant) (models.EnrichedOrder, bool) {
	confirm, okConfirm := parseOptional(r.ConfirmTime)
	merchantReady, okMerchant := parseOptional(r.MerchantReadyTime)
	actualReady, okActual := parseOptional(r.ActualReadyTime)
	riderArrival, okArrival := parseOptional(r.RiderArrivalTime)
	pickup, okPickup := parseOptional(r.PickupTime)
	if !okConfirm || !okMerchant || !okActual || !okArrival || !okPickup {
		return models.EnrichedOrder{}, false
	}

	var orderTime, riderAssigned *time.Time
	if t, ok := parseOptional(r.OrderTime); ok {
		orderTime = &t
	}
	if t, ok := parseOptional(r.RiderAssignedTime); ok {
		riderAssigned = &t
	}

	trueKPT := actualReady.Sub(confirm).Minutes()
	markedKPT := merchantReady.Sub(confirm).Minutes()
	forBias := merchantReady.Sub(actualReady).Minutes()
	prepGap := riderArrival.Sub(merchantReady).Minutes()
	riderIdle := pickup.Sub(riderArrival).Minutes()
	if riderIdle < 0 {
		riderIdle = 0
	}

	activeOrders := models.DefaultActiveOrders
	if r.ActiveOrders != nil {
		activeOrders = *r.ActiveOrders
	}
	staffCount := models.DefaultStaffCount
	if r.StaffCount != nil {
		staffCount = *r.StaffCount
	}
	loadIndex := float64(activeOrders) / float64(max(staffCount, 1))

	hour := confirm.Hour()
	peakHour := 0
	if models.PeakHours[hour] {
		peakHour = 1
	}
	// An explicit flag on the record overrides the hour-derived default.
	if r.PeakHour != nil {
		peakHour = *r.PeakHour
	}

	var distance float64
	if r.DistanceKm != nil {
		distance = *r.DistanceKm
	}

	rest, known := restaurants[r.RestaurantID]
	name := fmt.Sprintf("Restaurant #%d", r.RestaurantID)
	city := "Unknown"
	cuisine := "Unknown"
	if known {
		name = rest.Name
		city = rest.City
		cuisine = rest.CuisineType
	}

	return models.EnrichedOrder{
		OrderID:           r.OrderID,
		RestaurantID:      r.RestaurantID,
		RestaurantName:    name,
		City:              city,
		CityTier:          models.CityInfoFor(city).Tier,
		CuisineType:       cuisine,
		OrderTime:         orderTime,
		ConfirmTime:       confirm,
		MerchantReadyTime: merchantReady,
		ActualReadyTime:   actualReady,
		RiderAssignedTime: riderAssigned,
		RiderArrivalTime:  riderArrival,
		PickupTime:        pickup,
		ActiveOrders:      activeOrders,
		StaffCount:        staffCount,
		PeakHour:          peakHour,
		DistanceKm:        distance,
		TrueKPTMinutes:    round2(trueKPT),
		MarkedKPTMinutes:  round2(markedKPT),
		ForBiasMinutes:    round2(forBias),
		PrepGapMinutes:    round2(prepGap),
		RiderIdleMinutes:  round2(riderIdle),
		LoadIndex:         round2(loadIndex),
		HourOfDay:         hour,
		MerchantBiasType:  ClassifyOrderBias(forBias, prepGap),
	}, true
}
