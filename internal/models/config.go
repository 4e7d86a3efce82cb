package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	Seed                 int64         `mapstructure:"seed"`
	DatabaseURL          string        `mapstructure:"database_url"`
	ConnectTimeout       time.Duration `mapstructure:"connect_timeout"`
	SyntheticRestaurants int           `mapstructure:"synthetic_restaurants"`
	SyntheticOrders      int           `mapstructure:"synthetic_orders"`
	ListenAddr           string        `mapstructure:"listen_addr"`
	LogLevel             string        `mapstructure:"log_level"`

	OutputFormat      string             `mapstructure:"output_format"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
	KafkaEnabled      bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list"`
	KafkaTopicPrefix  string             `mapstructure:"kafka_topic_prefix"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("seed", 42)
	viper.SetDefault("connect_timeout", "8s")
	viper.SetDefault("synthetic_restaurants", 100)
	viper.SetDefault("synthetic_orders", 1000)
	viper.SetDefault("listen_addr", ":5000")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("output_format", "json")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("output_folder", "kpt_exports")
	viper.SetDefault("kafka_topic_prefix", "kpt")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine: env vars and defaults carry a
		// full run. Anything else (unreadable, malformed) is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
