package ingest

import (
	"encoding/json"
	"net/http"

	"stream-ingest-api/pkg/lambda"
)

const (
	// DefaultAllowOrigin is used when no website origin is configured
	DefaultAllowOrigin = "*"

	// AllowHeaders lists the request headers browsers may send
	AllowHeaders = "content-type, x-api-key"

	// AllowMethods lists the methods the ingestion endpoint accepts
	AllowMethods = "POST,OPTIONS"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func (n *Normalizer) headers(withJSON bool) map[string]string {
	h := map[string]string{
		"Access-Control-Allow-Origin":  n.allowOrigin,
		"Access-Control-Allow-Headers": AllowHeaders,
		"Access-Control-Allow-Methods": AllowMethods,
	}
	if withJSON {
		h["Content-Type"] = "application/json"
	}
	return h
}

func (n *Normalizer) preflightResponse() *lambda.Response {
	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers:    n.headers(false),
		Body:       "",
	}
}

func (n *Normalizer) noContentResponse() *lambda.Response {
	return &lambda.Response{
		StatusCode: http.StatusNoContent,
		Headers:    n.headers(false),
		Body:       "",
	}
}

func (n *Normalizer) jsonResponse(body []byte) *lambda.Response {
	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers:    n.headers(true),
		Body:       string(body),
	}
}

func (n *Normalizer) errorResponse(err error) *lambda.Response {
	body, marshalErr := json.Marshal(ErrorResponse{Error: err.Error()})
	if marshalErr != nil {
		body = []byte(`{"error":"internal error"}`)
	}

	return &lambda.Response{
		StatusCode: http.StatusInternalServerError,
		Headers:    n.headers(true),
		Body:       string(body),
	}
}
