package signal

import (
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/models"
)

// Snapshot holds every derived collection the platform serves. It is
// built once at startup and never mutated afterwards, so it can be shared
// across any number of concurrent readers without synchronisation.
type Snapshot struct {
	Restaurants    map[int]models.Restaurant
	Orders         []models.EnrichedOrder
	Profiles       map[int]models.RestaurantProfile
	SystemKPIs     models.SystemKPIs
	CityAnalytics  []models.CityAnalytic
	HourlyPatterns []models.HourlyPattern
	SignalFlow     []models.SignalFlowEntry
	RushIndex      []models.RushEntry
	BiasHeatmap    []models.HeatmapCell
	Simulation     models.SimulationReport
	Cities         []string
	Skipped        int
	DataSource     string
	BuiltAt        time.Time
}

// BuildSnapshot runs the full pipeline: derivation, then the independent
// aggregation passes. The seed drives the two illustrative jitters
// (signal-flow corrected KPT and the simulation's after-errors), so a
// given input set and seed always produce the same snapshot.
func BuildSnapshot(restaurants []models.Restaurant, raw []models.RawOrder, seed int64, dataSource string) *Snapshot {
	restMap := models.RestaurantMap(restaurants)
	derived := DeriveOrders(raw, restMap)
	orders := derived.Orders

	rng := rand.New(rand.NewSource(seed))
	profiles := ComputeRestaurantProfiles(orders, restMap)

	citySet := make(map[string]bool)
	for _, r := range restaurants {
		if r.City != "" && r.City != "Unknown" {
			citySet[r.City] = true
		}
	}
	cities := make([]string, 0, len(citySet))
	for c := range citySet {
		cities = append(cities, c)
	}
	sort.Strings(cities)

	snap := &Snapshot{
		Restaurants:    restMap,
		Orders:         orders,
		Profiles:       profiles,
		SystemKPIs:     ComputeSystemKPIs(orders, len(restaurants)),
		CityAnalytics:  ComputeCityAnalytics(orders),
		HourlyPatterns: ComputeHourlyPatterns(orders),
		SignalFlow:     ComputeSignalFlow(orders, rng),
		RushIndex:      ComputeRushIndex(orders, restMap),
		BiasHeatmap:    ComputeBiasHeatmap(profiles),
		Simulation:     ComputeSimulation(orders, rng),
		Cities:         cities,
		Skipped:        derived.Skipped,
		DataSource:     dataSource,
		BuiltAt:        time.Now(),
	}

	zap.L().Info("analytics snapshot built",
		zap.Int("restaurants", len(restaurants)),
		zap.Int("orders", len(orders)),
		zap.Int("skipped", derived.Skipped),
		zap.Int("cities", len(cities)),
		zap.String("data_source", dataSource),
	)
	return snap
}

// Predict evaluates the estimator against this snapshot's profiles.
func (s *Snapshot) Predict(in PredictInput) models.Prediction {
	return Predict(in, s.Profiles, s.Restaurants)
}

// OrdersForRestaurant returns up to limit enriched orders for one
// restaurant, in batch order. A limit <= 0 means no cap.
func (s *Snapshot) OrdersForRestaurant(restaurantID, limit int) []models.EnrichedOrder {
	var out []models.EnrichedOrder
	for _, o := range s.Orders {
		if o.RestaurantID != restaurantID {
			continue
		}
		out = append(out, o)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// HourlyKPT is the per-hour KPT breakdown for one restaurant's detail view.
type HourlyKPT struct {
	Hour   int     `json:"hour"`
	AvgKPT float64 `json:"avg_kpt"`
	Count  int     `json:"count"`
}

// HourlyKPTForOrders reduces a restaurant's orders into per-hour averages,
// ordered by hour. Only hours with orders appear.
func HourlyKPTForOrders(orders []models.EnrichedOrder) []HourlyKPT {
	byHour := make(map[int][]float64)
	for _, o := range orders {
		byHour[o.HourOfDay] = append(byHour[o.HourOfDay], o.TrueKPTMinutes)
	}
	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	out := make([]HourlyKPT, 0, len(hours))
	for _, h := range hours {
		vals := byHour[h]
		out = append(out, HourlyKPT{Hour: h, AvgKPT: round2(mean(vals)), Count: len(vals)})
	}
	return out
}
