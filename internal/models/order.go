package models

import "time"

// RawOrder is one timing record as it arrives from the order/event table.
// Timestamp fields are free-form strings in one of the recognised formats;
// pointers mark fields the source may omit. Defaults are applied once, at
// the derivation boundary.
type RawOrder struct {
	OrderID           string   `json:"order_id"`
	RestaurantID      int      `json:"restaurant_id"`
	OrderTime         *string  `json:"order_time"`
	ConfirmTime       *string  `json:"confirm_time"`
	MerchantReadyTime *string  `json:"merchant_ready_time"`
	ActualReadyTime   *string  `json:"actual_ready_time"`
	RiderAssignedTime *string  `json:"rider_assigned_time"`
	RiderArrivalTime  *string  `json:"rider_arrival_time"`
	PickupTime        *string  `json:"pickup_time"`
	ActiveOrders      *int     `json:"active_orders"`
	StaffCount        *int     `json:"staff_count"`
	PeakHour          *int     `json:"peak_hour"`
	DistanceKm        *float64 `json:"distance_km"`
}

// Defaults applied to raw records with missing load context.
const (
	DefaultActiveOrders = 5
	DefaultStaffCount   = 3
)

// EnrichedOrder is a raw order whose five required timestamps parsed,
// carrying the derived timing signals and the restaurant join. Instances
// are created once by the deriver and never mutated.
type EnrichedOrder struct {
	OrderID           string     `json:"order_id"`
	RestaurantID      int        `json:"restaurant_id"`
	RestaurantName    string     `json:"restaurant_name"`
	City              string     `json:"city"`
	CityTier          int        `json:"city_tier"`
	CuisineType       string     `json:"cuisine_type"`
	OrderTime         *time.Time `json:"order_time"`
	ConfirmTime       time.Time  `json:"confirm_time"`
	MerchantReadyTime time.Time  `json:"merchant_ready_time"`
	ActualReadyTime   time.Time  `json:"actual_ready_time"`
	RiderAssignedTime *time.Time `json:"rider_assigned_time"`
	RiderArrivalTime  time.Time  `json:"rider_arrival_time"`
	PickupTime        time.Time  `json:"pickup_time"`
	ActiveOrders      int        `json:"active_orders"`
	StaffCount        int        `json:"staff_count"`
	PeakHour          int        `json:"peak_hour"`
	DistanceKm        float64    `json:"distance_km"`

	TrueKPTMinutes   float64 `json:"true_kpt_minutes"`
	MarkedKPTMinutes float64 `json:"marked_kpt_minutes"`
	ForBiasMinutes   float64 `json:"for_bias_minutes"`
	PrepGapMinutes   float64 `json:"prep_gap_minutes"`
	RiderIdleMinutes float64 `json:"rider_idle_minutes"`
	LoadIndex        float64 `json:"load_index"`
	HourOfDay        int     `json:"hour_of_day"`
	MerchantBiasType string  `json:"merchant_bias_type"`
}
