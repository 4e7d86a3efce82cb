package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 8*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 100, cfg.SyntheticRestaurants)
	assert.Equal(t, 1000, cfg.SyntheticOrders)
	assert.Equal(t, ":5000", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "local", cfg.OutputDestination)
	assert.Equal(t, "kpt_exports", cfg.OutputFolder)
}

func TestLoadConfigFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"seed": 7,
		"database_url": "postgres://localhost/kpt",
		"connect_timeout": "3s",
		"listen_addr": ":8080",
		"kafka_enabled": true,
		"kafka_broker_list": "broker1:9092,broker2:9092",
		"cloud_storage": {"provider": "s3", "bucket_name": "kpt-data", "region": "eu-west-2"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "postgres://localhost/kpt", cfg.DatabaseURL)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "broker1:9092,broker2:9092", cfg.KafkaBrokerList)
	assert.Equal(t, "s3", cfg.CloudStorage.Provider)
	assert.Equal(t, "kpt-data", cfg.CloudStorage.BucketName)

	// unset keys keep their defaults
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
