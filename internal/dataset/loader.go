package dataset

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/factories"
	"github.com/quantumtrio/kptsignal/internal/models"
	"github.com/quantumtrio/kptsignal/internal/repositories/postgres"
)

// Source is the raw input set the snapshot is built from, tagged with
// where it came from.
type Source struct {
	Restaurants []models.Restaurant
	Records     []models.RawOrder
	Origin      string
}

const (
	OriginDatabase  = "postgres"
	OriginSynthetic = "synthetic"
)

// Load fetches the restaurant reference table and the order timing table.
// One attempt against Postgres with a bounded timeout; on any failure the
// deterministic synthetic dataset takes its place. Load itself never
// fails.
func Load(ctx context.Context, cfg *models.Config) Source {
	if cfg.DatabaseURL != "" {
		src, err := loadFromPostgres(ctx, cfg)
		if err == nil {
			return src
		}
		zap.L().Warn("database unavailable, using synthetic data", zap.Error(err))
	} else {
		zap.L().Info("no database_url configured, using synthetic data")
	}
	return synthetic(cfg)
}

func loadFromPostgres(ctx context.Context, cfg *models.Config) (Source, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return Source{}, eris.Wrap(err, "create pool")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return Source{}, eris.Wrap(err, "ping")
	}

	restaurants, err := postgres.NewRestaurantRepository(pool).GetAll(ctx)
	if err != nil {
		return Source{}, eris.Wrap(err, "load restaurants")
	}
	records, err := postgres.NewTimingRecordRepository(pool).GetAll(ctx)
	if err != nil {
		return Source{}, eris.Wrap(err, "load timing records")
	}
	if len(restaurants) == 0 || len(records) == 0 {
		return Source{}, eris.New("database is empty")
	}

	zap.L().Info("loaded dataset from postgres",
		zap.Int("restaurants", len(restaurants)),
		zap.Int("records", len(records)),
	)
	return Source{Restaurants: restaurants, Records: records, Origin: OriginDatabase}, nil
}

func synthetic(cfg *models.Config) Source {
	gen := factories.NewGenerator(cfg.Seed)
	restaurants := gen.Restaurants(cfg.SyntheticRestaurants)
	records := gen.TimingRecords(restaurants, cfg.SyntheticOrders)

	zap.L().Info("generated synthetic dataset",
		zap.Int64("seed", cfg.Seed),
		zap.Int("restaurants", len(restaurants)),
		zap.Int("records", len(records)),
	)
	return Source{Restaurants: restaurants, Records: records, Origin: OriginSynthetic}
}
