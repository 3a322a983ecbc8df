package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"stream-ingest-api/internal/models"
)

// requiredTelemetryFields are checked in this order; the first absent key is reported
var requiredTelemetryFields = []string{"device_id", "ts", "temp_c", "humidity"}

// buildEventRecord never fails: absent or unusable fields fall back to
// defaults. raw is stored untouched as props.
func buildEventRecord(payload map[string]any, raw json.RawMessage, now time.Time) *models.EventRecord {
	kind := coerceText(payload["type"])
	if kind == "" {
		kind = coerceText(payload["kind"])
	}

	ts, err := resolveTimestamp(payload["ts"], now)
	if err != nil {
		ts = now.UnixMilli()
	}

	href, _ := payload["href"].(string)

	if len(raw) == 0 {
		raw = emptyObject
	}

	return &models.EventRecord{
		Type:  models.TruncateType(kind),
		TS:    ts,
		Href:  href,
		Props: raw,
	}
}

// buildTelemetryRecord requires every telemetry key to be present. A null ts
// still falls back to wall-clock time.
func buildTelemetryRecord(payload map[string]any, now time.Time) (*models.TelemetryRecord, error) {
	for _, field := range requiredTelemetryFields {
		if _, ok := payload[field]; !ok {
			return nil, &MissingFieldError{Field: field}
		}
	}

	ts, err := resolveTimestamp(payload["ts"], now)
	if err != nil {
		return nil, err
	}

	return &models.TelemetryRecord{
		DeviceID: payload["device_id"],
		TS:       ts,
		TempC:    payload["temp_c"],
		Humidity: payload["humidity"],
	}, nil
}

// encodeLine serializes rec as one compact JSON object terminated by a newline
func encodeLine(rec models.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}
