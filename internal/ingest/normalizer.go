// Package ingest turns one API Gateway request into at most one
// newline-delimited JSON record on a delivery stream, and maps the outcome
// onto an HTTP response.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"stream-ingest-api/internal/adapters/stream"
	"stream-ingest-api/internal/metrics"
	"stream-ingest-api/internal/models"
	"stream-ingest-api/pkg/lambda"
)

// Profile selects the decode and normalization policy
type Profile string

const (
	// ProfileEvent decodes leniently, forwards the payload as props and answers 204
	ProfileEvent Profile = "event"

	// ProfileTelemetry requires the sensor fields and echoes the record with 200
	ProfileTelemetry Profile = "telemetry"
)

// ParseProfile validates a profile name
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(s))); p {
	case ProfileEvent, ProfileTelemetry:
		return p, nil
	default:
		return "", fmt.Errorf("unknown ingest profile: %q", s)
	}
}

// Options configures a Normalizer
type Options struct {
	Profile     Profile
	AllowOrigin string
	Clock       func() time.Time
	Metrics     *metrics.Metrics
	Logger      logrus.FieldLogger
}

// Normalizer handles ingestion requests for one profile
type Normalizer struct {
	stream      stream.DeliveryStream
	profile     Profile
	allowOrigin string
	now         func() time.Time
	metrics     *metrics.Metrics
	log         logrus.FieldLogger
}

// NewNormalizer creates a Normalizer writing to s
func NewNormalizer(s stream.DeliveryStream, opts Options) (*Normalizer, error) {
	if s == nil {
		return nil, errors.New("delivery stream is required")
	}

	profile, err := ParseProfile(string(opts.Profile))
	if err != nil {
		return nil, err
	}

	n := &Normalizer{
		stream:      s,
		profile:     profile,
		allowOrigin: opts.AllowOrigin,
		now:         opts.Clock,
		metrics:     opts.Metrics,
		log:         opts.Logger,
	}
	if n.allowOrigin == "" {
		n.allowOrigin = DefaultAllowOrigin
	}
	if n.now == nil {
		n.now = time.Now
	}
	if n.log == nil {
		n.log = logrus.StandardLogger()
	}

	return n, nil
}

// Profile returns the policy this normalizer applies
func (n *Normalizer) Profile() Profile {
	return n.profile
}

// Handle processes one request. It never fails: every error is reported
// as a 500 response carrying the error text.
func (n *Normalizer) Handle(ctx context.Context, req *lambda.Request) (resp *lambda.Response) {
	start := time.Now()

	fields := logrus.Fields{
		"request_id": req.RequestID,
		"profile":    n.profile,
		"stream":     n.stream.Name(),
		"method":     req.Method,
	}
	if id := lambda.InvocationID(ctx); id != "" {
		fields["invocation_id"] = id
	}

	defer func() {
		if r := recover(); r != nil {
			n.log.WithFields(fields).WithField("panic", r).Error("Ingestion handler panicked")
			n.metrics.ObserveRequest(string(n.profile), "error")
			resp = n.errorResponse(fmt.Errorf("internal error"))
		}
	}()

	if strings.EqualFold(req.Method, http.MethodOptions) {
		n.metrics.ObserveRequest(string(n.profile), "preflight")
		return n.preflightResponse()
	}

	resp, size, err := n.ingest(ctx, req, fields)

	fields["latency_ms"] = float64(time.Since(start).Nanoseconds()) / 1000000
	if err != nil {
		resp = n.errorResponse(err)
		fields["status_code"] = resp.StatusCode
		fields["error"] = err.Error()
		fields["retryable"] = stream.IsRetryable(err)
		n.log.WithFields(fields).Error("Ingestion failed")
		n.metrics.ObserveRequest(string(n.profile), "error")
		return resp
	}

	fields["status_code"] = resp.StatusCode
	fields["bytes"] = size
	n.log.WithFields(fields).Info("Record delivered")
	n.metrics.ObserveRequest(string(n.profile), "success")
	return resp
}

func (n *Normalizer) ingest(ctx context.Context, req *lambda.Request, fields logrus.Fields) (*lambda.Response, int, error) {
	payload, raw, err := decodeBody(req)
	if err != nil {
		if n.profile == ProfileTelemetry {
			return nil, 0, err
		}
		n.log.WithFields(fields).WithError(err).Debug("Undecodable body, using empty payload")
		payload, raw = map[string]any{}, emptyObject
	}

	rec, err := n.normalize(payload, raw)
	if err != nil {
		return nil, 0, err
	}

	line, err := encodeLine(rec)
	if err != nil {
		return nil, 0, err
	}

	writeStart := time.Now()
	err = n.stream.PutRecord(ctx, stream.Record{
		Data:         line,
		PartitionKey: rec.PartitionKey(),
	})
	n.metrics.ObserveWrite(string(n.profile), n.stream.Name(), len(line), time.Since(writeStart), err)
	if err != nil {
		return nil, 0, err
	}

	if n.profile == ProfileTelemetry {
		return n.jsonResponse(line[:len(line)-1]), len(line), nil
	}
	return n.noContentResponse(), len(line), nil
}

func (n *Normalizer) normalize(payload map[string]any, raw json.RawMessage) (models.Record, error) {
	now := n.now()
	if n.profile == ProfileTelemetry {
		return buildTelemetryRecord(payload, now)
	}
	return buildEventRecord(payload, raw, now), nil
}
