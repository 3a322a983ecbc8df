package transform

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream-ingest-api/internal/metrics"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, vec.WithLabelValues(labels...).Write(&out))
	return out.GetCounter().GetValue()
}

func TestProcess(t *testing.T) {
	logger, hook := test.NewNullLogger()
	m := metrics.New(prometheus.NewRegistry())
	tr := NewTransformer(m, logger)

	event := events.KinesisFirehoseEvent{
		InvocationID: "inv-1",
		Records: []events.KinesisFirehoseEventRecord{
			{RecordID: "1", Data: []byte(`{"type":"click"}`)},
			{RecordID: "2", Data: []byte("{\"type\":\"view\"}\n\n  ")},
			{RecordID: "3", Data: []byte(`not json`)},
			{RecordID: "4", Data: []byte(`[1,2]`)},
			{RecordID: "5", Data: []byte("{}\n{}\n")},
			{RecordID: "6", Data: []byte("  \n")},
		},
	}

	resp, err := tr.Process(context.Background(), event)
	require.NoError(t, err)
	require.Len(t, resp.Records, 6)

	assert.Equal(t, events.KinesisFirehoseTransformedStateOk, resp.Records[0].Result)
	assert.Equal(t, "{\"type\":\"click\"}\n", string(resp.Records[0].Data))

	assert.Equal(t, events.KinesisFirehoseTransformedStateOk, resp.Records[1].Result)
	assert.Equal(t, "{\"type\":\"view\"}\n", string(resp.Records[1].Data))

	for i, id := range []string{"3", "4", "5", "6"} {
		rec := resp.Records[i+2]
		assert.Equal(t, id, rec.RecordID)
		assert.Equal(t, events.KinesisFirehoseTransformedStateProcessingFailed, rec.Result)
		assert.Equal(t, event.Records[i+2].Data, rec.Data, "failed records are returned unchanged")
	}

	assert.Equal(t, float64(2), counterValue(t, m.TransformedTotal, "Ok"))
	assert.Equal(t, float64(4), counterValue(t, m.TransformedTotal, "ProcessingFailed"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, 4, entry.Data["failed_records"])
	assert.Equal(t, "inv-1", entry.Data["invocation_id"])
}

func TestProcessEmptyBatch(t *testing.T) {
	resp, err := NewTransformer(nil, nil).Process(context.Background(), events.KinesisFirehoseEvent{})
	require.NoError(t, err)
	assert.Empty(t, resp.Records)
}
