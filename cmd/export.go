package cmd

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/dataset"
	"github.com/quantumtrio/kptsignal/internal/export"
	signalpkg "github.com/quantumtrio/kptsignal/internal/signal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build the analytics snapshot and write every dataset to the configured sink",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		src := dataset.Load(ctx, cfg)
		snap := signalpkg.BuildSnapshot(src.Restaurants, src.Records, cfg.Seed, src.Origin)

		dest, err := export.NewDestination(cfg)
		if err != nil {
			return eris.Wrap(err, "create output destination")
		}

		runID, err := export.Run(snap, dest)
		if closeErr := dest.Close(); closeErr != nil && err == nil {
			err = eris.Wrap(closeErr, "close output destination")
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete", zap.String("run_id", runID))
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output-format", "json", "Output format: json, csv or parquet")
	exportCmd.Flags().String("output-path", "", "Base directory for file output (empty means console)")
	exportCmd.Flags().Bool("kafka-enabled", false, "Publish datasets to Kafka instead of files")
	exportCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")

	viper.BindPFlag("output_format", exportCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output_path", exportCmd.Flags().Lookup("output-path"))
	viper.BindPFlag("kafka_enabled", exportCmd.Flags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka_broker_list", exportCmd.Flags().Lookup("kafka-broker-list"))

	rootCmd.AddCommand(exportCmd)
}
