package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream-ingest-api/pkg/lambda"
)

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name    string
		req     lambda.Request
		want    map[string]any
		wantRaw string
		wantErr error
	}{
		{name: "Empty", req: lambda.Request{Body: ""}, want: map[string]any{}, wantRaw: `{}`},
		{name: "Whitespace", req: lambda.Request{Body: " \n\t"}, want: map[string]any{}, wantRaw: `{}`},
		{name: "Object", req: lambda.Request{Body: `{"a":1}`}, want: map[string]any{"a": json.Number("1")}, wantRaw: `{"a":1}`},
		{name: "Compacted", req: lambda.Request{Body: " { \"b\" : 2.0 ,\n \"a\": \" x \" } "}, want: map[string]any{"b": json.Number("2.0"), "a": " x "}, wantRaw: `{"b":2.0,"a":" x "}`},
		{name: "Base64", req: lambda.Request{Body: "eyJhIjoiYiJ9", IsBase64Encoded: true}, want: map[string]any{"a": "b"}, wantRaw: `{"a":"b"}`},
		{name: "Base64Empty", req: lambda.Request{Body: "", IsBase64Encoded: true}, want: map[string]any{}, wantRaw: `{}`},
		{name: "BadBase64", req: lambda.Request{Body: "!!", IsBase64Encoded: true}, wantErr: ErrInvalidBase64},
		{name: "BadJSON", req: lambda.Request{Body: "{"}, wantErr: ErrInvalidJSON},
		{name: "TrailingData", req: lambda.Request{Body: `{} {}`}, wantErr: ErrInvalidJSON},
		{name: "Array", req: lambda.Request{Body: `[]`}, wantErr: ErrNotObject},
		{name: "Null", req: lambda.Request{Body: `null`}, wantErr: ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, raw, err := decodeBody(&tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsDecodeError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRaw, string(raw))
		})
	}
}

func TestCoerceMillis(t *testing.T) {
	tests := []struct {
		in      any
		want    int64
		wantErr bool
	}{
		{in: nil, want: 0},
		{in: false, want: 0},
		{in: true, want: 1},
		{in: "", want: 0},
		{in: " 42 ", want: 42},
		{in: "4.2", wantErr: true},
		{in: json.Number("1700000000000"), want: 1700000000000},
		{in: json.Number("12.99"), want: 12},
		{in: json.Number("-3.5"), want: -3},
		{in: json.Number("1e300"), wantErr: true},
		{in: float64(7.9), want: 7},
		{in: 5, want: 5},
		{in: map[string]any{}, wantErr: true},
		{in: []any{1}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := coerceMillis(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidTimestamp, "%v", tt.in)
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestResolveTimestamp(t *testing.T) {
	now := time.UnixMilli(99)

	ts, err := resolveTimestamp(nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(99), ts)

	ts, err = resolveTimestamp(json.Number("5"), now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), ts)

	_, err = resolveTimestamp("later", now)
	assert.Error(t, err)
}

func TestCoerceText(t *testing.T) {
	assert.Equal(t, "", coerceText(nil))
	assert.Equal(t, "click", coerceText("click"))
	assert.Equal(t, "3.14", coerceText(json.Number("3.14")))
	assert.Equal(t, "false", coerceText(false))
	assert.Equal(t, `{"a":"b"}`, coerceText(map[string]any{"a": "b"}))
	assert.Equal(t, `[1,2]`, coerceText([]any{json.Number("1"), json.Number("2")}))
}
