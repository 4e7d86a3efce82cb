package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantumtrio/kptsignal/internal/models"
)

// TimingRecordRepository reads and writes the order timing table. The
// timestamp columns are kept as text on purpose: upstream collectors emit
// free-form strings in several formats and normalisation happens once, in
// the derivation pass.
type TimingRecordRepository struct {
	pool *pgxpool.Pool
}

func NewTimingRecordRepository(pool *pgxpool.Pool) *TimingRecordRepository {
	return &TimingRecordRepository{pool: pool}
}

func (r *TimingRecordRepository) BulkCreate(ctx context.Context, records []models.RawOrder) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		query := `
            INSERT INTO order_timings (
                order_id, restaurant_id, order_time, confirm_time, merchant_ready_time,
                actual_ready_time, rider_assigned_time, rider_arrival_time, pickup_time,
                active_orders, staff_count, peak_hour, distance_km
            ) VALUES (
                $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
            )
        `

		_, err = tx.Exec(ctx, query,
			record.OrderID,
			record.RestaurantID,
			record.OrderTime,
			record.ConfirmTime,
			record.MerchantReadyTime,
			record.ActualReadyTime,
			record.RiderAssignedTime,
			record.RiderArrivalTime,
			record.PickupTime,
			record.ActiveOrders,
			record.StaffCount,
			record.PeakHour,
			record.DistanceKm,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *TimingRecordRepository) GetAll(ctx context.Context) ([]models.RawOrder, error) {
	query := `
        SELECT
            order_id, restaurant_id, order_time, confirm_time, merchant_ready_time,
            actual_ready_time, rider_assigned_time, rider_arrival_time, pickup_time,
            active_orders, staff_count, peak_hour, distance_km
        FROM order_timings
        ORDER BY order_id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.RawOrder
	for rows.Next() {
		var record models.RawOrder
		err := rows.Scan(
			&record.OrderID,
			&record.RestaurantID,
			&record.OrderTime,
			&record.ConfirmTime,
			&record.MerchantReadyTime,
			&record.ActualReadyTime,
			&record.RiderAssignedTime,
			&record.RiderArrivalTime,
			&record.PickupTime,
			&record.ActiveOrders,
			&record.StaffCount,
			&record.PeakHour,
			&record.DistanceKm,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *TimingRecordRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_timings").Scan(&count)
	return count, err
}

func (r *TimingRecordRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE order_timings")
	return err
}
