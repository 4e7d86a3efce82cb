package cmd

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quantumtrio/kptsignal/internal/models"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kptsignal",
	Short: "KPT signal intelligence for food delivery timing data",
	Long: `kptsignal derives kitchen preparation time (KPT) signals from raw
order timing records: per-order bias detection, restaurant reliability
profiles, city and hourly aggregates, and a closed-form corrected-KPT
estimator served over HTTP.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.PersistentFlags().Int64("seed", 42, "Random seed for synthetic data and jitters")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// loadConfig reads the config file and swaps in the global logger at the
// configured level. Every subcommand starts here.
func loadConfig() (*models.Config, error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, eris.Wrap(err, "load config")
	}
	if err := initLogger(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(levelName string) error {
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return eris.Wrap(err, "parse log level")
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
