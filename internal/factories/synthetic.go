package factories

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/jaswdr/faker"

	"github.com/quantumtrio/kptsignal/internal/models"
)

// Generator produces the deterministic fallback dataset used when the
// external database is unreachable. Everything is drawn from a single
// seeded source, so the same seed always yields the same dataset.
type Generator struct {
	rng  *rand.Rand
	fake faker.Faker
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		fake: faker.NewWithSeed(rand.NewSource(seed)),
	}
}

var cuisines = []string{
	"North Indian", "South Indian", "Chinese", "Italian", "Mughlai",
	"Street Food", "Continental", "Fast Food", "Biryani", "Cafe",
}

// Restaurants generates n synthetic restaurants spread across the known
// cities, ids 1..n.
func (g *Generator) Restaurants(n int) []models.Restaurant {
	cityList := make([]string, 0, len(models.Cities))
	for city := range models.Cities {
		cityList = append(cityList, city)
	}
	// map iteration order is random per process; sort for reproducibility
	sort.Strings(cityList)

	restaurants := make([]models.Restaurant, 0, n)
	for i := 1; i <= n; i++ {
		city := cityList[g.rng.Intn(len(cityList))]
		ci := models.Cities[city]
		restaurants = append(restaurants, models.Restaurant{
			ID:              i,
			Name:            g.fake.Company().Name(),
			CuisineType:     cuisines[g.rng.Intn(len(cuisines))],
			Rating:          math.Round((2.5+g.rng.Float64()*2.5)*10) / 10,
			TotalReviews:    50 + g.rng.Intn(1951),
			TotalOrders:     300 + g.rng.Intn(19701),
			PriceRange:      "150-500",
			AvgMealPriceINR: 300,
			City:            city,
			State:           "India",
			Latitude:        20.0,
			Longitude:       78.0,
			OperatingHours:  "10AM-11PM",
			Availability:    "Open",
			SeatingCapacity: 40,
			IsPureVeg:       false,
			IsVerified:      true,
			DiscountOffer:   "10% Off",
			DateJoined:      "2020-01-01",
			CityTier:        ci.Tier,
			PaymentMethods:  "UPI",
		})
	}
	return restaurants
}

// TimingRecords generates n raw timing records against the given
// restaurants. The timestamp chains are built so the derived signals
// resemble production: true KPT grows with the city's congestion, the
// merchant-reported ready time carries a bias in [-2, 10] minutes, and
// riders mostly arrive slightly before the food is ready.
func (g *Generator) TimingRecords(restaurants []models.Restaurant, n int) []models.RawOrder {
	restMap := models.RestaurantMap(restaurants)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local)

	records := make([]models.RawOrder, 0, n)
	for i := 0; i < n; i++ {
		rid := 1 + g.rng.Intn(len(restaurants))
		rest := restMap[rid]
		ci := models.CityInfoFor(rest.City)

		confirm := base.
			AddDate(0, 0, g.rng.Intn(29)).
			Add(time.Duration(6+g.rng.Intn(18)) * time.Hour).
			Add(time.Duration(g.rng.Intn(60)) * time.Minute)

		trueKPT := 8 + g.rng.Float64()*32 + ci.CongestionBase*3
		bias := -2 + g.rng.Float64()*12

		actualReady := confirm.Add(minutes(trueKPT))
		merchantReady := actualReady.Add(minutes(bias))
		riderArrival := confirm.Add(minutes(trueKPT*0.85 + 5))
		pickup := riderArrival
		if actualReady.After(pickup) {
			pickup = actualReady
		}
		pickup = pickup.Add(minutes(g.rng.Float64() * 3))

		peakHour := 0
		if models.PeakHours[confirm.Hour()] {
			peakHour = 1
		}
		activeOrders := 2 + g.rng.Intn(11)
		staffCount := 1 + g.rng.Intn(6)
		distance := math.Round((1+g.rng.Float64()*9)*100) / 100

		records = append(records, models.RawOrder{
			OrderID:           fmt.Sprintf("ord_%05d", i),
			RestaurantID:      rid,
			OrderTime:         stamp(confirm),
			ConfirmTime:       stamp(confirm),
			MerchantReadyTime: stamp(merchantReady),
			ActualReadyTime:   stamp(actualReady),
			RiderAssignedTime: stamp(riderArrival),
			RiderArrivalTime:  stamp(riderArrival),
			PickupTime:        stamp(pickup),
			ActiveOrders:      &activeOrders,
			StaffCount:        &staffCount,
			PeakHour:          &peakHour,
			DistanceKm:        &distance,
		})
	}
	return records
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

func stamp(t time.Time) *string {
	s := t.Format("2006-01-02 15:04:05")
	return &s
}

