package stream

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/firehose"
	"github.com/aws/aws-sdk-go/service/firehose/firehoseiface"
)

type fakeFirehose struct {
	firehoseiface.FirehoseAPI

	inputs []*firehose.PutRecordInput
	err    error
}

func (f *fakeFirehose) PutRecordWithContext(ctx aws.Context, in *firehose.PutRecordInput, _ ...request.Option) (*firehose.PutRecordOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &firehose.PutRecordOutput{RecordId: aws.String("rec-1")}, nil
}

func TestFirehoseStream_PutRecord(t *testing.T) {
	client := &fakeFirehose{}
	s, err := NewFirehoseStreamWithClient(client, "clickstream")
	if err != nil {
		t.Fatalf("Failed to create stream: %v", err)
	}

	data := []byte("{\"type\":\"click\"}\n")
	if err := s.PutRecord(context.Background(), Record{Data: data, PartitionKey: "ignored"}); err != nil {
		t.Fatalf("PutRecord failed: %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(client.inputs))
	}
	in := client.inputs[0]
	if aws.StringValue(in.DeliveryStreamName) != "clickstream" {
		t.Errorf("DeliveryStreamName = %q", aws.StringValue(in.DeliveryStreamName))
	}
	if string(in.Record.Data) != string(data) {
		t.Errorf("Record data = %q, want %q", in.Record.Data, data)
	}
}

func TestFirehoseStream_Validation(t *testing.T) {
	if _, err := NewFirehoseStreamWithClient(&fakeFirehose{}, ""); !errors.Is(err, ErrInvalidStreamName) {
		t.Errorf("Expected ErrInvalidStreamName, got %v", err)
	}

	client := &fakeFirehose{}
	s, _ := NewFirehoseStreamWithClient(client, "events")
	ctx := context.Background()

	if err := s.PutRecord(ctx, Record{}); !errors.Is(err, ErrEmptyRecord) {
		t.Errorf("Expected ErrEmptyRecord, got %v", err)
	}

	big := []byte(strings.Repeat("x", MaxFirehoseRecordSize+1))
	if err := s.PutRecord(ctx, Record{Data: big}); !errors.Is(err, ErrRecordTooLarge) {
		t.Errorf("Expected ErrRecordTooLarge, got %v", err)
	}

	s.Close()
	if err := s.PutRecord(ctx, Record{Data: []byte("x")}); !IsClosed(err) {
		t.Errorf("Expected closed error, got %v", err)
	}

	if len(client.inputs) != 0 {
		t.Errorf("Rejected records must not reach the service, got %d calls", len(client.inputs))
	}
}

func TestFirehoseStream_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		sentinel  error
		retryable bool
	}{
		{
			name:      "service unavailable",
			err:       awserr.New(firehose.ErrCodeServiceUnavailableException, "slow down", nil),
			sentinel:  ErrStreamUnavailable,
			retryable: true,
		},
		{
			name:      "throttled",
			err:       awserr.New("ThrottlingException", "rate exceeded", nil),
			sentinel:  ErrThrottled,
			retryable: true,
		},
		{
			name:      "not found",
			err:       awserr.New(firehose.ErrCodeResourceNotFoundException, "no such stream", nil),
			sentinel:  ErrStreamNotFound,
			retryable: false,
		},
		{
			name:      "access denied",
			err:       awserr.New("AccessDeniedException", "not allowed", nil),
			sentinel:  ErrPermissionDenied,
			retryable: false,
		},
		{
			name:      "other aws error",
			err:       awserr.New(firehose.ErrCodeInvalidArgumentException, "bad", nil),
			retryable: false,
		},
		{
			name:      "non aws error",
			err:       errors.New("connection reset"),
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeFirehose{err: tt.err}
			s, _ := NewFirehoseStreamWithClient(client, "events")

			err := s.PutRecord(context.Background(), Record{Data: []byte("{}\n")})
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("Expected %v in chain, got %v", tt.sentinel, err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("Original error lost: %v", err)
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", IsRetryable(err), tt.retryable)
			}
			if len(client.inputs) != 1 {
				t.Errorf("Expected exactly one attempt, got %d", len(client.inputs))
			}
		})
	}
}

func TestNewFirehoseStream(t *testing.T) {
	if _, err := NewFirehoseStream(&StreamConfig{}); !errors.Is(err, ErrInvalidStreamName) {
		t.Errorf("Expected ErrInvalidStreamName, got %v", err)
	}

	s, err := NewFirehoseStream(&StreamConfig{Name: "events", Region: "eu-west-1", Endpoint: "http://localhost:4566"})
	if err != nil {
		t.Fatalf("Failed to create stream: %v", err)
	}
	if s.Name() != "events" {
		t.Errorf("Name() = %q", s.Name())
	}
}
