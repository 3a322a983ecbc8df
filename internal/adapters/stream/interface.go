package stream

import (
	"context"
)

// Record is a single encoded record submitted to a delivery stream
type Record struct {
	Data         []byte `json:"data"`
	PartitionKey string `json:"partition_key,omitempty"` // Ignored by backends without keyed partitions
}

// DeliveryStream provides an abstraction over an append-only ingestion service.
// Implementations must be safe for concurrent use once constructed.
type DeliveryStream interface {
	// PutRecord submits exactly one record. It blocks until the backend has
	// accepted or rejected the record and never retries internally.
	PutRecord(ctx context.Context, rec Record) error

	// Name returns the stream name records are delivered to
	Name() string

	// Close releases any resources held by the implementation
	Close() error
}

// StreamConfig represents configuration for delivery stream providers
type StreamConfig struct {
	Type      string   `json:"type" yaml:"type"`             // "firehose", "kafka", "file", "mock"
	Name      string   `json:"name" yaml:"name"`             // Delivery stream or topic name
	Region    string   `json:"region" yaml:"region"`         // For firehose
	Endpoint  string   `json:"endpoint" yaml:"endpoint"`     // Optional firehose endpoint override
	Brokers   []string `json:"brokers" yaml:"brokers"`       // For kafka
	LocalPath string   `json:"local_path" yaml:"local_path"` // For file
}
