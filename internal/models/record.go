package models

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

const (
	// MaxTypeLength bounds the classification string, in characters
	MaxTypeLength = 64

	// DefaultType is used when an event carries no classification
	DefaultType = "unknown"
)

// Record is a normalized record ready to be framed and written to a stream
type Record interface {
	// PartitionKey returns the key used by keyed stream backends, or ""
	PartitionKey() string
}

// EventRecord is the normalized form of a generic client event (page views,
// clicks). Props carries the input object verbatim, in its original key
// order, for schema-on-read consumers.
type EventRecord struct {
	Type  string          `json:"type"`
	TS    int64           `json:"ts"`
	Href  string          `json:"href,omitempty"`
	Props json.RawMessage `json:"props"`
}

// PartitionKey implements Record
func (r *EventRecord) PartitionKey() string {
	return ""
}

// TelemetryRecord is the normalized form of a sensor reading. Reading values
// are passed through as received.
type TelemetryRecord struct {
	DeviceID any   `json:"device_id"`
	TS       int64 `json:"ts"`
	TempC    any   `json:"temp_c"`
	Humidity any   `json:"humidity"`
}

// PartitionKey implements Record
func (r *TelemetryRecord) PartitionKey() string {
	if r.DeviceID == nil {
		return ""
	}
	return fmt.Sprint(r.DeviceID)
}

// TruncateType bounds a classification string to MaxTypeLength characters,
// substituting DefaultType for an empty value
func TruncateType(s string) string {
	if s == "" {
		return DefaultType
	}
	if utf8.RuneCountInString(s) <= MaxTypeLength {
		return s
	}

	n := 0
	for i := range s {
		if n == MaxTypeLength {
			return s[:i]
		}
		n++
	}
	return s
}
