package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the correlation ID in and out of the service.
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey is the gin context key the ID is stored under.
	CorrelationIDKey = "correlation_id"
)

// CorrelationID assigns every request an identifier that rides along on log
// lines, payment events, and audit entries, so a recorded payment attempt can
// be traced back to the HTTP request that caused it. A caller-supplied header
// value is honored; otherwise a fresh UUID is issued. Either way the ID is
// echoed in the response header.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, correlationID)
		c.Set(CorrelationIDKey, correlationID)

		c.Next()
	}
}

// GetCorrelationID returns the request's correlation ID, or "" outside the
// middleware chain.
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}
