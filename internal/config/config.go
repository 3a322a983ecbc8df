package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stream-ingest-api/internal/adapters/stream"
)

// ErrMissingStreamName is returned when no delivery stream is configured
var ErrMissingStreamName = errors.New("FIREHOSE_NAME is required")

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	Ingest      IngestConfig
	Stream      StreamConfig
	Logging     LoggingConfig
	Server      ServerConfig
}

// IngestConfig holds normalizer configuration
type IngestConfig struct {
	AllowOrigin string `validate:"required"`
}

// StreamConfig holds delivery stream configuration
type StreamConfig struct {
	Name      string `validate:"required"`
	Type      string `validate:"oneof=firehose kafka file mock"`
	Region    string
	Endpoint  string
	Brokers   []string `validate:"required_if=Type kafka"`
	LocalPath string   `validate:"required_if=Type file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=json text"`
}

// ServerConfig holds local server configuration
type ServerConfig struct {
	RateLimitRPS   float64 `validate:"gte=0"`
	RateLimitBurst int     `validate:"gte=0"`
	MaxBodyBytes   int64   `validate:"gt=0"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("WEBSITE_ORIGIN", "*")
	viper.SetDefault("STREAM_TYPE", "firehose")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("STREAM_LOCAL_PATH", "./data/stream")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("RATE_LIMIT_RPS", 50)
	viper.SetDefault("RATE_LIMIT_BURST", 100)
	viper.SetDefault("MAX_BODY_BYTES", 1<<20)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Ingest: IngestConfig{
			AllowOrigin: viper.GetString("WEBSITE_ORIGIN"),
		},
		Stream: StreamConfig{
			Name:      strings.TrimSpace(viper.GetString("FIREHOSE_NAME")),
			Type:      strings.ToLower(viper.GetString("STREAM_TYPE")),
			Region:    viper.GetString("AWS_REGION"),
			Endpoint:  viper.GetString("FIREHOSE_ENDPOINT"),
			Brokers:   splitList(viper.GetString("KAFKA_BROKERS")),
			LocalPath: viper.GetString("STREAM_LOCAL_PATH"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
			Format: strings.ToLower(viper.GetString("LOG_FORMAT")),
		},
		Server: ServerConfig{
			RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
			MaxBodyBytes:   viper.GetInt64("MAX_BODY_BYTES"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration. A missing stream name is reported as
// ErrMissingStreamName since the process cannot serve requests without it.
func (c *Config) Validate() error {
	if c.Stream.Name == "" {
		return ErrMissingStreamName
	}

	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			msgs := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// StreamSettings converts the stream section into adapter configuration
func (c *Config) StreamSettings() *stream.StreamConfig {
	return &stream.StreamConfig{
		Type:      c.Stream.Type,
		Name:      c.Stream.Name,
		Region:    c.Stream.Region,
		Endpoint:  c.Stream.Endpoint,
		Brokers:   c.Stream.Brokers,
		LocalPath: c.Stream.LocalPath,
	}
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
