package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// EnsureSchema creates the two tables if they do not exist yet. Timestamp
// columns are text because upstream collectors emit free-form strings.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			restaurant_id      INTEGER PRIMARY KEY,
			restaurant_name    TEXT NOT NULL,
			cuisine_type       TEXT,
			rating             DOUBLE PRECISION,
			total_reviews      INTEGER,
			total_orders       INTEGER,
			price_range        TEXT,
			avg_meal_price_inr DOUBLE PRECISION,
			city               TEXT,
			state              TEXT,
			latitude           DOUBLE PRECISION,
			longitude          DOUBLE PRECISION,
			operating_hours    TEXT,
			availability       TEXT,
			seating_capacity   INTEGER,
			is_pure_veg        BOOLEAN,
			is_verified        BOOLEAN,
			discount_offer     TEXT,
			date_joined        TEXT,
			tags               TEXT,
			payment_methods    TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_timings (
			order_id            TEXT PRIMARY KEY,
			restaurant_id       INTEGER NOT NULL,
			order_time          TEXT,
			confirm_time        TEXT,
			merchant_ready_time TEXT,
			actual_ready_time   TEXT,
			rider_assigned_time TEXT,
			rider_arrival_time  TEXT,
			pickup_time         TEXT,
			active_orders       INTEGER,
			staff_count         INTEGER,
			peak_hour           INTEGER,
			distance_km         DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_timings_restaurant ON order_timings (restaurant_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return eris.Wrap(err, "ensure schema")
		}
	}
	return nil
}
