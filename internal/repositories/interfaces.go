package repositories

import (
	"context"

	"github.com/quantumtrio/kptsignal/internal/models"
)

type RestaurantRepository interface {
	BulkCreate(ctx context.Context, restaurants []models.Restaurant) error
	GetAll(ctx context.Context) ([]models.Restaurant, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type TimingRecordRepository interface {
	BulkCreate(ctx context.Context, records []models.RawOrder) error
	GetAll(ctx context.Context) ([]models.RawOrder, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
