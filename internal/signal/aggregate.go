package signal

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/quantumtrio/kptsignal/internal/models"
)

// Correction constants for the "after" side of the ETA-error picture.
// These model a hypothetical bias correction for the dashboard; they are
// illustrative numbers, not measured results.
const (
	correctionFactor         = 0.65
	signalImprovementPct     = 35
	riderIdleReductionPct    = 31
	cancellationReductionPct = 14

	signalFlowSampleSize = 50
	rushIndexTopN        = 15
	cityMinOrders        = 3
)

// ComputeRestaurantProfiles groups the enriched orders by restaurant and
// reduces each group to a reliability profile.
func ComputeRestaurantProfiles(orders []models.EnrichedOrder, restaurants map[int]models.Restaurant) map[int]models.RestaurantProfile {
	type acc struct {
		forBias, idle, trueKPT, markedKPT []float64
	}
	groups := make(map[int]*acc)
	for _, o := range orders {
		g, ok := groups[o.RestaurantID]
		if !ok {
			g = &acc{}
			groups[o.RestaurantID] = g
		}
		g.forBias = append(g.forBias, o.ForBiasMinutes)
		g.idle = append(g.idle, o.RiderIdleMinutes)
		g.trueKPT = append(g.trueKPT, o.TrueKPTMinutes)
		g.markedKPT = append(g.markedKPT, o.MarkedKPTMinutes)
	}

	profiles := make(map[int]models.RestaurantProfile, len(groups))
	for rid, g := range groups {
		avgBias := mean(g.forBias)
		avgIdle := mean(g.idle)
		avgTrue := mean(g.trueKPT)
		avgMarked := mean(g.markedKPT)
		stdBias := sampleStdev(g.forBias)

		biasNorm := math.Min(math.Abs(avgBias)/10.0, 1.0)
		idleNorm := math.Min(avgIdle/5.0, 1.0)
		relScore := round3(biasNorm*0.6 + idleNorm*0.4)

		quality := models.SignalQualityLow
		switch {
		case relScore < 0.3:
			quality = models.SignalQualityHigh
		case relScore < 0.6:
			quality = models.SignalQualityMedium
		}

		name, city := "Unknown", "Unknown"
		if rest, ok := restaurants[rid]; ok {
			name, city = rest.Name, rest.City
		}

		profiles[rid] = models.RestaurantProfile{
			RestaurantID:     rid,
			RestaurantName:   name,
			City:             city,
			OrderCount:       len(g.trueKPT),
			AvgTrueKPT:       round2(avgTrue),
			AvgMarkedKPT:     round2(avgMarked),
			AvgForBias:       round2(avgBias),
			AvgIdleTime:      round2(avgIdle),
			ReliabilityScore: relScore,
			DetectedBiasType: ClassifyAggregateBias(avgBias, stdBias),
			KPTErrorPct:      round1(math.Abs(avgMarked-avgTrue) / math.Max(avgTrue, 1) * 100),
			SignalQuality:    quality,
		}
	}
	return profiles
}

// ComputeSystemKPIs reduces the whole order set to the platform headline
// metrics, including the before/after ETA-error percentiles.
func ComputeSystemKPIs(orders []models.EnrichedOrder, restaurantCount int) models.SystemKPIs {
	trueKPTs := make([]float64, 0, len(orders))
	markedKPTs := make([]float64, 0, len(orders))
	idleTimes := make([]float64, 0, len(orders))
	forBiases := make([]float64, 0, len(orders))
	errors := make([]float64, 0, len(orders))
	biasTypes := make(map[string]int)

	for _, o := range orders {
		trueKPTs = append(trueKPTs, o.TrueKPTMinutes)
		markedKPTs = append(markedKPTs, o.MarkedKPTMinutes)
		idleTimes = append(idleTimes, o.RiderIdleMinutes)
		forBiases = append(forBiases, o.ForBiasMinutes)
		errors = append(errors, math.Abs(o.MarkedKPTMinutes-o.TrueKPTMinutes))
		biasTypes[o.MerchantBiasType]++
	}

	sortedErrors := append([]float64(nil), errors...)
	sort.Float64s(sortedErrors)
	corrected := make([]float64, len(errors))
	for i, e := range errors {
		corrected[i] = e * correctionFactor
	}
	sort.Float64s(corrected)

	denom := math.Max(float64(restaurantCount), 1)
	return models.SystemKPIs{
		TotalOrders:            len(orders),
		TotalRestaurants:       restaurantCount,
		AvgTrueKPT:             round2(mean(trueKPTs)),
		AvgMarkedKPT:           round2(mean(markedKPTs)),
		AvgIdleTime:            round2(mean(idleTimes)),
		AvgForBias:             round2(mean(forBiases)),
		ETAErrorP50Before:      round2(percentile(sortedErrors, 0.50)),
		ETAErrorP90Before:      round2(percentile(sortedErrors, 0.90)),
		ETAErrorP50After:       round2(percentile(corrected, 0.50)),
		ETAErrorP90After:       round2(percentile(corrected, 0.90)),
		SignalImprovementPct:   signalImprovementPct,
		BiasDistribution:       biasTypes,
		ReliableRestaurantsPct: round1(float64(biasTypes[models.BiasReliable]) / denom * 100),
		HighBiasRestaurantsPct: round1(float64(biasTypes[models.BiasRiderTriggered]+biasTypes[models.BiasSystematicDelay]) / denom * 100),
	}
}

// ComputeCityAnalytics groups orders by city and reduces each group.
// Cities with fewer than three orders are dropped to denoise small
// samples. Output is ordered by volume, descending.
func ComputeCityAnalytics(orders []models.EnrichedOrder) []models.CityAnalytic {
	type acc struct {
		idle, biases, trueKPTs []float64
	}
	groups := make(map[string]*acc)
	for _, o := range orders {
		g, ok := groups[o.City]
		if !ok {
			g = &acc{}
			groups[o.City] = g
		}
		g.idle = append(g.idle, o.RiderIdleMinutes)
		g.biases = append(g.biases, o.ForBiasMinutes)
		g.trueKPTs = append(g.trueKPTs, o.TrueKPTMinutes)
	}

	result := make([]models.CityAnalytic, 0, len(groups))
	for city, g := range groups {
		if len(g.trueKPTs) < cityMinOrders {
			continue
		}
		ci := models.CityInfoFor(city)
		meanTrue := mean(g.trueKPTs)
		result = append(result, models.CityAnalytic{
			City:            city,
			Tier:            ci.Tier,
			OrderCount:      len(g.trueKPTs),
			AvgIdleTime:     round2(mean(g.idle)),
			AvgForBias:      round2(mean(g.biases)),
			AvgTrueKPT:      round2(meanTrue),
			DensityIndex:    ci.Density,
			CongestionIndex: ci.CongestionBase,
			RushIndex:       round3((meanTrue / 20) * ci.CongestionBase),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderCount != result[j].OrderCount {
			return result[i].OrderCount > result[j].OrderCount
		}
		return result[i].City < result[j].City
	})
	return result
}

// ComputeHourlyPatterns reduces orders into 24 hour slots. Every slot is
// present; hours with no orders are zero-filled.
func ComputeHourlyPatterns(orders []models.EnrichedOrder) []models.HourlyPattern {
	type acc struct {
		kpts, biases, idles []float64
	}
	byHour := make(map[int]*acc)
	for _, o := range orders {
		g, ok := byHour[o.HourOfDay]
		if !ok {
			g = &acc{}
			byHour[o.HourOfDay] = g
		}
		g.kpts = append(g.kpts, o.TrueKPTMinutes)
		g.biases = append(g.biases, o.ForBiasMinutes)
		g.idles = append(g.idles, o.RiderIdleMinutes)
	}

	result := make([]models.HourlyPattern, 0, 24)
	for h := 0; h < 24; h++ {
		label := fmt.Sprintf("%02d:00", h)
		g, ok := byHour[h]
		if !ok {
			result = append(result, models.HourlyPattern{Hour: h, HourLabel: label})
			continue
		}
		result = append(result, models.HourlyPattern{
			Hour:       h,
			HourLabel:  label,
			OrderCount: len(g.kpts),
			AvgKPT:     round2(mean(g.kpts)),
			AvgBias:    round2(mean(g.biases)),
			AvgIdle:    round2(mean(g.idles)),
			IsPeak:     models.PeakHours[h],
		})
	}
	return result
}

// ComputeSignalFlow builds the dashboard's correction timeline from the
// first orders of the batch. The corrected KPT carries a small jitter
// drawn from the snapshot's seeded RNG, so the timeline is stable for a
// given seed.
func ComputeSignalFlow(orders []models.EnrichedOrder, rng *rand.Rand) []models.SignalFlowEntry {
	sample := orders
	if len(sample) > signalFlowSampleSize {
		sample = sample[:signalFlowSampleSize]
	}
	sorted := append([]models.EnrichedOrder(nil), sample...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].OrderTime, sorted[j].OrderTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	timeline := make([]models.SignalFlowEntry, 0, len(sorted))
	for _, o := range sorted {
		jitter := 0.95 + rng.Float64()*0.10
		quality := models.SignalQualityLow
		switch {
		case math.Abs(o.ForBiasMinutes) < 2:
			quality = models.SignalQualityHigh
		case math.Abs(o.ForBiasMinutes) < 5:
			quality = models.SignalQualityMedium
		}
		id := o.OrderID
		if len(id) > 14 {
			id = id[:14]
		}
		timeline = append(timeline, models.SignalFlowEntry{
			OrderID:       id,
			Restaurant:    o.RestaurantName,
			TrueKPT:       round1(o.TrueKPTMinutes),
			MarkedKPT:     round1(o.MarkedKPTMinutes),
			CorrectedKPT:  round1(o.TrueKPTMinutes * jitter),
			Bias:          round1(o.ForBiasMinutes),
			Idle:          round1(o.RiderIdleMinutes),
			SignalQuality: quality,
		})
	}
	return timeline
}

// ComputeRushIndex ranks restaurants by how much their kitchen slows at
// peak hours. Restaurants need at least one peak and one off-peak order to
// qualify; the top fifteen multipliers are returned.
func ComputeRushIndex(orders []models.EnrichedOrder, restaurants map[int]models.Restaurant) []models.RushEntry {
	type acc struct {
		peak, off []float64
	}
	groups := make(map[int]*acc)
	for _, o := range orders {
		g, ok := groups[o.RestaurantID]
		if !ok {
			g = &acc{}
			groups[o.RestaurantID] = g
		}
		if o.PeakHour != 0 {
			g.peak = append(g.peak, o.TrueKPTMinutes)
		} else {
			g.off = append(g.off, o.TrueKPTMinutes)
		}
	}

	entries := make([]models.RushEntry, 0, len(groups))
	for rid, g := range groups {
		if len(g.peak) == 0 || len(g.off) == 0 {
			continue
		}
		peakAvg := mean(g.peak)
		offAvg := mean(g.off)
		multiplier := peakAvg / math.Max(offAvg, 1)

		name, city := "Unknown", "Unknown"
		if rest, ok := restaurants[rid]; ok {
			name, city = rest.Name, rest.City
		}
		entries = append(entries, models.RushEntry{
			RestaurantID:   rid,
			RestaurantName: name,
			City:           city,
			PeakKPT:        round1(peakAvg),
			OffPeakKPT:     round1(offAvg),
			RushMultiplier: round2(multiplier),
			LoadSpike:      round1((multiplier - 1) * 100),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RushMultiplier != entries[j].RushMultiplier {
			return entries[i].RushMultiplier > entries[j].RushMultiplier
		}
		return entries[i].RestaurantID < entries[j].RestaurantID
	})
	if len(entries) > rushIndexTopN {
		entries = entries[:rushIndexTopN]
	}
	return entries
}

// ComputeBiasHeatmap counts aggregate-detected bias types per city over
// the restaurant profiles.
func ComputeBiasHeatmap(profiles map[int]models.RestaurantProfile) []models.HeatmapCell {
	byCity := make(map[string]*models.HeatmapCell)
	for _, p := range profiles {
		cell, ok := byCity[p.City]
		if !ok {
			cell = &models.HeatmapCell{City: p.City}
			byCity[p.City] = cell
		}
		cell.Total++
		switch p.DetectedBiasType {
		case models.BiasReliable:
			cell.Reliable++
		case models.BiasRiderTriggered:
			cell.RiderTriggered++
		case models.BiasSystematicDelay:
			cell.SystematicDelay++
		case models.BiasPeakManipulator:
			cell.PeakManipulator++
		}
	}

	result := make([]models.HeatmapCell, 0, len(byCity))
	for _, cell := range byCity {
		cell.ReliabilityRate = round1(float64(cell.Reliable) / math.Max(float64(cell.Total), 1) * 100)
		result = append(result, *cell)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].City < result[j].City
	})
	return result
}

// ComputeSimulation contrasts the ETA error distribution with a
// hypothetical corrected one. Each error is scaled by a factor drawn
// uniformly from [0.58, 0.72] off the seeded RNG; the flat reduction
// percentages are illustrative constants.
func ComputeSimulation(orders []models.EnrichedOrder, rng *rand.Rand) models.SimulationReport {
	before := make([]float64, 0, len(orders))
	for _, o := range orders {
		before = append(before, math.Abs(o.MarkedKPTMinutes-o.TrueKPTMinutes))
	}
	after := make([]float64, len(before))
	for i, e := range before {
		after[i] = e * (0.58 + rng.Float64()*0.14)
	}

	beforeDist := summariseErrors(before)
	afterDist := summariseErrors(after)

	return models.SimulationReport{
		Before: beforeDist,
		After:  afterDist,
		Improvement: models.SimulationImprovement{
			P50ReductionPct:          round1((1 - afterDist.P50/math.Max(beforeDist.P50, 0.1)) * 100),
			P90ReductionPct:          round1((1 - afterDist.P90/math.Max(beforeDist.P90, 0.1)) * 100),
			MeanReductionPct:         round1((1 - afterDist.Mean/math.Max(beforeDist.Mean, 0.1)) * 100),
			RiderIdleReductionPct:    riderIdleReductionPct,
			CancellationReductionPct: cancellationReductionPct,
		},
	}
}

func summariseErrors(errors []float64) models.ErrorDistribution {
	sorted := append([]float64(nil), errors...)
	sort.Float64s(sorted)

	buckets := make([]string, 0, 13)
	counts := make([]int, 0, 13)
	for b := 0; b <= 24; b += 2 {
		count := 0
		for _, e := range errors {
			if e >= float64(b) && e < float64(b+2) {
				count++
			}
		}
		buckets = append(buckets, fmt.Sprintf("%d-%dm", b, b+2))
		counts = append(counts, count)
	}

	return models.ErrorDistribution{
		P50:  round2(percentile(sorted, 0.50)),
		P75:  round2(percentile(sorted, 0.75)),
		P90:  round2(percentile(sorted, 0.90)),
		Mean: round2(mean(errors)),
		Histogram: models.ErrorHistogram{
			Buckets: buckets,
			Counts:  counts,
		},
	}
}
