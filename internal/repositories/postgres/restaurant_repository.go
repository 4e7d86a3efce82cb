package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantumtrio/kptsignal/internal/models"
)

type RestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

func (r *RestaurantRepository) BulkCreate(ctx context.Context, restaurants []models.Restaurant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, restaurant := range restaurants {
		query := `
            INSERT INTO restaurants (
                restaurant_id, restaurant_name, cuisine_type, rating, total_reviews,
                total_orders, price_range, avg_meal_price_inr, city, state,
                latitude, longitude, operating_hours, availability, seating_capacity,
                is_pure_veg, is_verified, discount_offer, date_joined, tags, payment_methods
            ) VALUES (
                $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
                $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
            )
        `

		_, err = tx.Exec(ctx, query,
			restaurant.ID,
			restaurant.Name,
			restaurant.CuisineType,
			restaurant.Rating,
			restaurant.TotalReviews,
			restaurant.TotalOrders,
			restaurant.PriceRange,
			restaurant.AvgMealPriceINR,
			restaurant.City,
			restaurant.State,
			restaurant.Latitude,
			restaurant.Longitude,
			restaurant.OperatingHours,
			restaurant.Availability,
			restaurant.SeatingCapacity,
			restaurant.IsPureVeg,
			restaurant.IsVerified,
			restaurant.DiscountOffer,
			restaurant.DateJoined,
			restaurant.Tags,
			restaurant.PaymentMethods,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *RestaurantRepository) GetAll(ctx context.Context) ([]models.Restaurant, error) {
	query := `
        SELECT
            restaurant_id, restaurant_name, cuisine_type, rating, total_reviews,
            total_orders, price_range, avg_meal_price_inr, city, state,
            latitude, longitude, operating_hours, availability, seating_capacity,
            is_pure_veg, is_verified, discount_offer, date_joined, tags, payment_methods
        FROM restaurants
        ORDER BY restaurant_id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var restaurant models.Restaurant
		err := rows.Scan(
			&restaurant.ID,
			&restaurant.Name,
			&restaurant.CuisineType,
			&restaurant.Rating,
			&restaurant.TotalReviews,
			&restaurant.TotalOrders,
			&restaurant.PriceRange,
			&restaurant.AvgMealPriceINR,
			&restaurant.City,
			&restaurant.State,
			&restaurant.Latitude,
			&restaurant.Longitude,
			&restaurant.OperatingHours,
			&restaurant.Availability,
			&restaurant.SeatingCapacity,
			&restaurant.IsPureVeg,
			&restaurant.IsVerified,
			&restaurant.DiscountOffer,
			&restaurant.DateJoined,
			&restaurant.Tags,
			&restaurant.PaymentMethods,
		)
		if err != nil {
			return nil, err
		}
		restaurant.CityTier = models.CityInfoFor(restaurant.City).Tier
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}

func (r *RestaurantRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}

func (r *RestaurantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE restaurants CASCADE")
	return err
}
