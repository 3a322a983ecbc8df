package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the ingestion path
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RecordBytesTotal   *prometheus.CounterVec
	StreamWriteSeconds *prometheus.HistogramVec
	TransformedTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered; the Observe methods still work.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_requests_total",
				Help: "Total number of ingestion requests by profile and outcome",
			},
			[]string{"profile", "outcome"},
		),
		RecordBytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_record_bytes_total",
				Help: "Total bytes of framed records written to the delivery stream",
			},
			[]string{"profile"},
		),
		StreamWriteSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ingest_stream_write_duration_seconds",
				Help:    "Duration of delivery stream writes in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stream", "status"},
		),
		TransformedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_transformed_records_total",
				Help: "Total number of records handled by the delivery stream transformation",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.RecordBytesTotal, m.StreamWriteSeconds, m.TransformedTotal)
	}

	return m
}

// ObserveRequest records the outcome of one ingestion request
func (m *Metrics) ObserveRequest(profile, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(profile, outcome).Inc()
}

// ObserveWrite records one stream write
func (m *Metrics) ObserveWrite(profile, stream string, bytes int, d time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	} else {
		m.RecordBytesTotal.WithLabelValues(profile).Add(float64(bytes))
	}
	m.StreamWriteSeconds.WithLabelValues(stream, status).Observe(d.Seconds())
}

// ObserveTransform records the result of one transformed record
func (m *Metrics) ObserveTransform(result string) {
	if m == nil {
		return
	}
	m.TransformedTotal.WithLabelValues(result).Inc()
}
