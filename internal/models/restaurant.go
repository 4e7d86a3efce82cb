package models

type Restaurant struct {
	ID              int     `json:"restaurant_id"`
	Name            string  `json:"restaurant_name"`
	CuisineType     string  `json:"cuisine_type"`
	Rating          float64 `json:"rating"`
	TotalReviews    int     `json:"total_reviews"`
	TotalOrders     int     `json:"total_orders"`
	PriceRange      string  `json:"price_range"`
	AvgMealPriceINR float64 `json:"avg_meal_price_inr"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	OperatingHours  string  `json:"operating_hours"`
	Availability    string  `json:"availability"`
	SeatingCapacity int     `json:"seating_capacity"`
	IsPureVeg       bool    `json:"is_pure_veg"`
	IsVerified      bool    `json:"is_verified"`
	DiscountOffer   string  `json:"discount_offer"`
	DateJoined      string  `json:"date_joined"`
	CityTier        int     `json:"city_tier"`
	Tags            string  `json:"tags"`
	PaymentMethods  string  `json:"payment_methods"`
}

// RestaurantMap indexes restaurants by id for join lookups.
func RestaurantMap(restaurants []Restaurant) map[int]Restaurant {
	m := make(map[int]Restaurant, len(restaurants))
	for _, r := range restaurants {
		m[r.ID] = r
	}
	return m
}
