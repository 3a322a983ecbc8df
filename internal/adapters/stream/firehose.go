package stream

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/firehose"
	"github.com/aws/aws-sdk-go/service/firehose/firehoseiface"
)

// MaxFirehoseRecordSize is the largest record Firehose accepts (1,000 KiB before base64)
const MaxFirehoseRecordSize = 1000 * 1024

// FirehoseStream implements DeliveryStream for Amazon Kinesis Data Firehose
type FirehoseStream struct {
	client firehoseiface.FirehoseAPI
	name   string
	closed atomic.Bool
}

// NewFirehoseStream creates a FirehoseStream backed by an AWS session.
// SDK retries are disabled: redelivery belongs to the invoking front door.
func NewFirehoseStream(config *StreamConfig) (*FirehoseStream, error) {
	if config.Name == "" {
		return nil, NewStreamError("NewFirehoseStream", "", ErrInvalidStreamName, false)
	}

	awsConfig := aws.Config{
		MaxRetries: aws.Int(0),
	}
	if config.Region != "" {
		awsConfig.Region = aws.String(config.Region)
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            awsConfig,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, NewStreamError("NewFirehoseStream", config.Name, err, false)
	}

	return NewFirehoseStreamWithClient(firehose.New(sess), config.Name)
}

// NewFirehoseStreamWithClient creates a FirehoseStream around an existing client
func NewFirehoseStreamWithClient(client firehoseiface.FirehoseAPI, name string) (*FirehoseStream, error) {
	if name == "" {
		return nil, NewStreamError("NewFirehoseStream", "", ErrInvalidStreamName, false)
	}

	return &FirehoseStream{
		client: client,
		name:   name,
	}, nil
}

// PutRecord implements DeliveryStream.PutRecord
func (f *FirehoseStream) PutRecord(ctx context.Context, rec Record) error {
	if f.closed.Load() {
		return NewStreamError("PutRecord", f.name, ErrStreamClosed, false)
	}
	if len(rec.Data) == 0 {
		return NewStreamError("PutRecord", f.name, ErrEmptyRecord, false)
	}
	if len(rec.Data) > MaxFirehoseRecordSize {
		return NewStreamError("PutRecord", f.name, ErrRecordTooLarge, false)
	}

	_, err := f.client.PutRecordWithContext(ctx, &firehose.PutRecordInput{
		DeliveryStreamName: aws.String(f.name),
		Record: &firehose.Record{
			Data: rec.Data,
		},
	})
	if err != nil {
		return classifyFirehoseError(f.name, err)
	}

	return nil
}

// Name implements DeliveryStream.Name
func (f *FirehoseStream) Name() string {
	return f.name
}

// Close implements DeliveryStream.Close
func (f *FirehoseStream) Close() error {
	f.closed.Store(true)
	return nil
}

// classifyFirehoseError maps AWS error codes onto stream errors
func classifyFirehoseError(name string, err error) error {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return NewStreamError("PutRecord", name, err, false)
	}

	switch aerr.Code() {
	case firehose.ErrCodeServiceUnavailableException:
		return NewStreamError("PutRecord", name, fmt.Errorf("%w: %w", ErrStreamUnavailable, err), true)
	case "ThrottlingException", "LimitExceededException":
		return NewStreamError("PutRecord", name, fmt.Errorf("%w: %w", ErrThrottled, err), true)
	case firehose.ErrCodeResourceNotFoundException:
		return NewStreamError("PutRecord", name, fmt.Errorf("%w: %w", ErrStreamNotFound, err), false)
	case "AccessDeniedException", firehose.ErrCodeInvalidKMSResourceException:
		return NewStreamError("PutRecord", name, fmt.Errorf("%w: %w", ErrPermissionDenied, err), false)
	default:
		return NewStreamError("PutRecord", name, err, false)
	}
}
