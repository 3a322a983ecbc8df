package stream

import (
	"fmt"
	"strings"
)

// StreamType represents the type of delivery stream implementation
type StreamType string

const (
	StreamTypeFirehose StreamType = "firehose"
	StreamTypeKafka    StreamType = "kafka"
	StreamTypeFile     StreamType = "file"
	StreamTypeMock     StreamType = "mock"
)

// Factory creates DeliveryStream instances based on configuration
type Factory struct{}

// NewFactory creates a new stream factory
func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a DeliveryStream instance based on the provided configuration
func (f *Factory) Create(config *StreamConfig) (DeliveryStream, error) {
	if config == nil {
		return nil, fmt.Errorf("stream config is required")
	}
	if config.Name == "" {
		return nil, NewStreamError("Create", "", ErrInvalidStreamName, false)
	}

	streamType := StreamType(strings.ToLower(config.Type))
	if streamType == "" {
		streamType = StreamTypeFirehose
	}

	var stream DeliveryStream
	var err error

	switch streamType {
	case StreamTypeFirehose:
		stream, err = NewFirehoseStream(config)
	case StreamTypeKafka:
		stream, err = NewKafkaStream(config)
	case StreamTypeFile:
		stream, err = f.createLocalStream(config)
	case StreamTypeMock:
		stream = NewMockDeliveryStream(config.Name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s stream: %w", streamType, err)
	}

	return stream, nil
}

// createLocalStream creates a local filesystem stream implementation
func (f *Factory) createLocalStream(config *StreamConfig) (DeliveryStream, error) {
	basePath := config.LocalPath
	if basePath == "" {
		basePath = "./data/stream" // Default path
	}
	return NewLocalFileStream(basePath, config.Name)
}

// CreateFromConfig is a convenience function to create a stream from config
func CreateFromConfig(config *StreamConfig) (DeliveryStream, error) {
	return NewFactory().Create(config)
}
