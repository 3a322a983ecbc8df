package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stream-ingest-api/internal/ingest"
	"stream-ingest-api/internal/middleware"
	"stream-ingest-api/pkg/lambda"
)

// IngestHandler serves a Normalizer over gin, mirroring what API Gateway
// hands the Lambda function
type IngestHandler struct {
	normalizer *ingest.Normalizer
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(normalizer *ingest.Normalizer) *IngestHandler {
	return &IngestHandler{
		normalizer: normalizer,
	}
}

// @Summary Ingest a client event
// @Description Writes one analytics event to the delivery stream. Any JSON object is accepted; undecodable bodies are stored as an empty event.
// @Tags ingest
// @Accept json
// @Param event body object false "Event payload; type, ts and href are promoted"
// @Success 204 "Record written"
// @Failure 500 {object} ErrorResponse
// @Router /ingest/events [post]
func (h *IngestHandler) Events(c *gin.Context) {
	h.serve(c)
}

// @Summary Ingest a telemetry reading
// @Description Writes one sensor reading to the delivery stream and echoes the stored record
// @Tags ingest
// @Accept json
// @Produce json
// @Param reading body object true "device_id, ts, temp_c and humidity are required"
// @Success 200 {object} models.TelemetryRecord
// @Failure 500 {object} ErrorResponse
// @Router /ingest/telemetry [post]
func (h *IngestHandler) Telemetry(c *gin.Context) {
	h.serve(c)
}

func (h *IngestHandler) serve(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			if isBodyTooLarge(err) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
					Error:   "Request too large",
					Message: err.Error(),
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
	}

	resp := h.normalizer.Handle(c.Request.Context(), toRequest(c, body))
	for key, value := range resp.Headers {
		c.Header(key, value)
	}

	if resp.Body == "" {
		c.Status(resp.StatusCode)
		return
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], []byte(resp.Body))
}

// toRequest builds the request API Gateway would have delivered
func toRequest(c *gin.Context, body []byte) *lambda.Request {
	headers := make(map[string]string, len(c.Request.Header))
	for key, values := range c.Request.Header {
		headers[strings.ToLower(key)] = strings.Join(values, ",")
	}

	query := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			query[key] = values[len(values)-1]
		}
	}

	return &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        string(body),
		RequestID:   c.GetString(middleware.RequestIDKey),
	}
}
