package cmd

import (
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/factories"
	"github.com/quantumtrio/kptsignal/internal/repositories/postgres"
)

var seedReset bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a synthetic dataset and load it into Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return eris.New("database_url is required for seeding")
		}

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "create pool")
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return eris.Wrap(err, "ping database")
		}

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}

		restaurantRepo := postgres.NewRestaurantRepository(pool)
		timingRepo := postgres.NewTimingRecordRepository(pool)

		if seedReset {
			if err := timingRepo.DeleteAll(ctx); err != nil {
				return eris.Wrap(err, "clear order timings")
			}
			if err := restaurantRepo.DeleteAll(ctx); err != nil {
				return eris.Wrap(err, "clear restaurants")
			}
			zap.L().Info("existing data cleared")
		}

		gen := factories.NewGenerator(cfg.Seed)
		restaurants := gen.Restaurants(cfg.SyntheticRestaurants)
		records := gen.TimingRecords(restaurants, cfg.SyntheticOrders)

		if err := restaurantRepo.BulkCreate(ctx, restaurants); err != nil {
			return eris.Wrap(err, "insert restaurants")
		}
		if err := timingRepo.BulkCreate(ctx, records); err != nil {
			return eris.Wrap(err, "insert order timings")
		}

		zap.L().Info("database seeded",
			zap.Int64("seed", cfg.Seed),
			zap.Int("restaurants", len(restaurants)),
			zap.Int("records", len(records)),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete existing rows before seeding")
	seedCmd.Flags().Int("synthetic-restaurants", 100, "Number of restaurants to generate")
	seedCmd.Flags().Int("synthetic-orders", 1000, "Number of timing records to generate")

	viper.BindPFlag("synthetic_restaurants", seedCmd.Flags().Lookup("synthetic-restaurants"))
	viper.BindPFlag("synthetic_orders", seedCmd.Flags().Lookup("synthetic-orders"))

	rootCmd.AddCommand(seedCmd)
}
