// Package transform frames records passing through a delivery stream's
// transformation hook as newline-delimited JSON.
package transform

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"stream-ingest-api/internal/metrics"
)

const whitespace = " \t\r\n"

// Transformer re-frames Firehose records so every object ends with exactly one newline
type Transformer struct {
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

// NewTransformer creates a Transformer; m and logger may be nil
func NewTransformer(m *metrics.Metrics, logger logrus.FieldLogger) *Transformer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Transformer{metrics: m, log: logger}
}

// Process transforms every record in the batch. Records that are not a
// single JSON object are returned unchanged and marked ProcessingFailed so
// Firehose routes them to its error output.
func (t *Transformer) Process(ctx context.Context, event events.KinesisFirehoseEvent) (events.KinesisFirehoseResponse, error) {
	records := make([]events.KinesisFirehoseResponseRecord, 0, len(event.Records))
	failed := 0

	for _, record := range event.Records {
		out := events.KinesisFirehoseResponseRecord{
			RecordID: record.RecordID,
			Result:   events.KinesisFirehoseTransformedStateOk,
		}

		data, ok := frame(record.Data)
		if ok {
			out.Data = data
		} else {
			out.Result = events.KinesisFirehoseTransformedStateProcessingFailed
			out.Data = record.Data
			failed++
		}

		t.metrics.ObserveTransform(out.Result)
		records = append(records, out)
	}

	entry := t.log.WithFields(logrus.Fields{
		"invocation_id":  event.InvocationID,
		"stream_arn":     event.DeliveryStreamArn,
		"records":        len(event.Records),
		"failed_records": failed,
	})
	if failed > 0 {
		entry.Warn("Some records could not be framed")
	} else {
		entry.Debug("Batch transformed")
	}

	return events.KinesisFirehoseResponse{Records: records}, nil
}

// frame trims trailing whitespace and appends a single newline, provided
// the remaining data is exactly one JSON object
func frame(data []byte) ([]byte, bool) {
	trimmed := bytes.TrimRight(data, whitespace)
	lead := bytes.TrimLeft(trimmed, whitespace)
	if len(lead) == 0 || lead[0] != '{' || !json.Valid(trimmed) {
		return nil, false
	}

	out := make([]byte, len(trimmed)+1)
	copy(out, trimmed)
	out[len(trimmed)] = '\n'
	return out, true
}
