package server

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"stream-ingest-api/internal/config"
	"stream-ingest-api/internal/ingest"
	"stream-ingest-api/internal/metrics"
	"stream-ingest-api/internal/transform"
	"stream-ingest-api/pkg/lambda"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Stream      *lambda.StreamManager
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	Events      *ingest.Normalizer
	Telemetry   *ingest.Normalizer
	Transformer *transform.Transformer
}

// NewContainer creates a new dependency injection container. The delivery
// stream client is built lazily on the first record.
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithFactory(cfg, nil)
}

// NewContainerWithFactory creates a container whose stream client is built by factory
func NewContainerWithFactory(cfg *config.Config, factory lambda.StreamFactory) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	registry := newRegistry(config.IsServerlessMode())
	m := metrics.New(registry)

	streamManager := lambda.NewStreamManager(cfg.StreamSettings(), factory)
	logger := logrus.WithFields(logrus.Fields{
		"deployment": config.GetDeploymentMode(),
		"env":        cfg.Environment,
	})

	events, err := ingest.NewNormalizer(streamManager, ingest.Options{
		Profile:     ingest.ProfileEvent,
		AllowOrigin: cfg.Ingest.AllowOrigin,
		Metrics:     m,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event normalizer: %w", err)
	}

	telemetry, err := ingest.NewNormalizer(streamManager, ingest.Options{
		Profile:     ingest.ProfileTelemetry,
		AllowOrigin: cfg.Ingest.AllowOrigin,
		Metrics:     m,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry normalizer: %w", err)
	}

	return &Container{
		Config:      cfg,
		Stream:      streamManager,
		Registry:    registry,
		Metrics:     m,
		Events:      events,
		Telemetry:   telemetry,
		Transformer: transform.NewTransformer(m, logger),
	}, nil
}

// newRegistry creates the registry behind /metrics. Runtime collectors are
// only added for the long-running server since nothing scrapes a Lambda.
func newRegistry(serverless bool) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	if !serverless {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return registry
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Stream != nil {
		if err := c.Stream.Close(); err != nil {
			return fmt.Errorf("failed to close delivery stream: %w", err)
		}
	}

	return nil
}
