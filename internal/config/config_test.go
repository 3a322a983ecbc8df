package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnv isolates a test from variables set by the surrounding environment
func setEnv(t *testing.T, values map[string]string) {
	t.Helper()

	for _, key := range []string{
		"FIREHOSE_NAME", "WEBSITE_ORIGIN", "STREAM_TYPE",
		"AWS_REGION", "FIREHOSE_ENDPOINT", "KAFKA_BROKERS", "STREAM_LOCAL_PATH",
		"LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "PORT",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BODY_BYTES",
	} {
		t.Setenv(key, "")
	}
	for key, value := range values {
		t.Setenv(key, value)
	}
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		setEnv(t, map[string]string{"FIREHOSE_NAME": "clickstream"})

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "clickstream", cfg.Stream.Name)
		assert.Equal(t, "firehose", cfg.Stream.Type)
		assert.Equal(t, "us-east-1", cfg.Stream.Region)
		assert.Equal(t, "*", cfg.Ingest.AllowOrigin)
		assert.Equal(t, "8081", cfg.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, float64(50), cfg.Server.RateLimitRPS)
		assert.Equal(t, 100, cfg.Server.RateLimitBurst)
		assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	})

	t.Run("MissingStreamName", func(t *testing.T) {
		setEnv(t, nil)

		cfg, err := Load()
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrMissingStreamName)
	})

	t.Run("Overrides", func(t *testing.T) {
		setEnv(t, map[string]string{
			"FIREHOSE_NAME":  "telemetry",
			"WEBSITE_ORIGIN": "https://example.com",
			"STREAM_TYPE":    "kafka",
			"KAFKA_BROKERS":  "k1:9092, k2:9092,,",
			"LOG_LEVEL":      "debug",
		})

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "https://example.com", cfg.Ingest.AllowOrigin)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Stream.Brokers)

		settings := cfg.StreamSettings()
		assert.Equal(t, "kafka", settings.Type)
		assert.Equal(t, "telemetry", settings.Name)
		assert.Equal(t, cfg.Stream.Brokers, settings.Brokers)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		setEnv(t, map[string]string{
			"FIREHOSE_NAME": "clickstream",
			"STREAM_TYPE":   "carrier-pigeon",
			"LOG_FORMAT":    "xml",
		})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Stream.Type")
		assert.Contains(t, err.Error(), "Logging.Format")
	})

	t.Run("UnrelatedVariablesIgnored", func(t *testing.T) {
		setEnv(t, map[string]string{"FIREHOSE_NAME": "s"})
		t.Setenv("INGEST_PROFILE", "events")

		cfg, err := GetOptimizedConfig()
		require.NoError(t, err)
		assert.Equal(t, "s", cfg.Stream.Name)
	})
}

func TestAdaptConfigForServerless(t *testing.T) {
	base := func() *Config {
		return &Config{
			Stream:  StreamConfig{Name: "s", Type: "file", LocalPath: "./data/stream"},
			Logging: LoggingConfig{Level: "info", Format: "text"},
		}
	}

	t.Run("OutsideLambda", func(t *testing.T) {
		cfg := AdaptConfigForServerless(base(), &ServerlessConfig{IsLambda: false})
		assert.Equal(t, "text", cfg.Logging.Format)
		assert.Equal(t, "./data/stream", cfg.Stream.LocalPath)
	})

	t.Run("InsideLambda", func(t *testing.T) {
		cfg := AdaptConfigForServerless(base(), &ServerlessConfig{IsLambda: true, FunctionName: "ingest"})
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, filepath.Join(os.TempDir(), "stream"), cfg.Stream.LocalPath)
	})
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	require.NoError(t, ConfigureLogging(LoggingConfig{Level: "debug", Format: "json"}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	require.NoError(t, ConfigureLogging(LoggingConfig{Level: "warn", Format: "text"}))
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)

	assert.Error(t, ConfigureLogging(LoggingConfig{Level: "loud", Format: "json"}))
}
