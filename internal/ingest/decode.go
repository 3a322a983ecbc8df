package ingest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"stream-ingest-api/pkg/lambda"
)

// emptyObject is the raw form of an absent or undecodable payload
var emptyObject = json.RawMessage(`{}`)

// decodeBody turns a request body into a mapping plus its compacted source
// text. An absent or blank body is an empty mapping; anything else must be a
// single JSON object. The raw form keeps key order and number literals as
// received.
func decodeBody(req *lambda.Request) (map[string]any, json.RawMessage, error) {
	body := req.Body
	if req.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
		if err != nil {
			return nil, nil, &DecodeError{Err: fmt.Errorf("%w: %v", ErrInvalidBase64, err)}
		}
		body = string(raw)
	}

	if strings.TrimSpace(body) == "" {
		return map[string]any{}, emptyObject, nil
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, nil, &DecodeError{Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, &DecodeError{Err: fmt.Errorf("%w: unexpected data after top-level value", ErrInvalidJSON)}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, nil, &DecodeError{Err: ErrNotObject}
	}

	var raw bytes.Buffer
	if err := json.Compact(&raw, []byte(body)); err != nil {
		return nil, nil, &DecodeError{Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}

	return obj, json.RawMessage(raw.Bytes()), nil
}

// coerceMillis converts a ts value to integer milliseconds, truncating
// fractional values. Absent, null, false and "" all yield 0.
func coerceMillis(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, t.String())
		}
		return truncateFloat(f)
	case float64:
		return truncateFloat(t)
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, t)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimestamp, v)
	}
}

func truncateFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidTimestamp, f)
	}
	return int64(f), nil
}

// resolveTimestamp returns the supplied ts, or now in milliseconds when the
// supplied value is absent or zero
func resolveTimestamp(v any, now time.Time) (int64, error) {
	ms, err := coerceMillis(v)
	if err != nil {
		return 0, err
	}
	if ms == 0 {
		return now.UnixMilli(), nil
	}
	return ms, nil
}

// coerceText renders a scalar payload value as text; "" for null or absent
func coerceText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}
