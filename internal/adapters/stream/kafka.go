package stream

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer used by KafkaStream
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaStream implements DeliveryStream on a Kafka topic, for deployments
// that run the ingestion path outside AWS
type KafkaStream struct {
	writer messageWriter
	topic  string
	closed atomic.Bool
}

// NewKafkaStream creates a KafkaStream writing synchronously, one message per call
func NewKafkaStream(config *StreamConfig) (*KafkaStream, error) {
	if config.Name == "" {
		return nil, NewStreamError("NewKafkaStream", "", ErrInvalidStreamName, false)
	}
	if len(config.Brokers) == 0 {
		return nil, NewStreamError("NewKafkaStream", config.Name, fmt.Errorf("at least one broker is required"), false)
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Name,
		Balancer:     &kafka.Hash{},
		BatchSize:    1,
		BatchTimeout: time.Millisecond,
		MaxAttempts:  1,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return newKafkaStreamWithWriter(w, config.Name), nil
}

func newKafkaStreamWithWriter(w messageWriter, topic string) *KafkaStream {
	return &KafkaStream{writer: w, topic: topic}
}

// PutRecord implements DeliveryStream.PutRecord
func (k *KafkaStream) PutRecord(ctx context.Context, rec Record) error {
	if k.closed.Load() {
		return NewStreamError("PutRecord", k.topic, ErrStreamClosed, false)
	}
	if len(rec.Data) == 0 {
		return NewStreamError("PutRecord", k.topic, ErrEmptyRecord, false)
	}

	msg := kafka.Message{
		Value: rec.Data,
		Time:  time.Now(),
	}
	if rec.PartitionKey != "" {
		msg.Key = []byte(rec.PartitionKey)
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		var kerr kafka.Error
		if errors.As(err, &kerr) && kerr.Temporary() {
			return NewStreamError("PutRecord", k.topic, fmt.Errorf("%w: %w", ErrStreamUnavailable, err), true)
		}
		return NewStreamError("PutRecord", k.topic, err, false)
	}

	return nil
}

// Name implements DeliveryStream.Name
func (k *KafkaStream) Name() string {
	return k.topic
}

// Close implements DeliveryStream.Close
func (k *KafkaStream) Close() error {
	if k.closed.Swap(true) {
		return nil
	}
	return k.writer.Close()
}
