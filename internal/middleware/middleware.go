package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stream-ingest-api/internal/ingest"
)

// CORS sets the same cross-origin headers the ingestion handlers return, so
// responses produced by middleware (rate limiting, oversize bodies) stay
// readable from the browser
func CORS(allowOrigin string) gin.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = ingest.DefaultAllowOrigin
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Headers", ingest.AllowHeaders)
		c.Header("Access-Control-Allow-Methods", ingest.AllowMethods)
		c.Next()
	}
}

// Recovery turns a panic in a handler into a 500 with a JSON error body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"panic":      recovered,
		}).Error("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "internal error",
			RequestID: c.GetString(RequestIDKey),
			Timestamp: time.Now().Format(time.RFC3339),
		})
	})
}
