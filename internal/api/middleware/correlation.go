package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the correlation id on requests and responses
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey stores the correlation id in the gin context
	CorrelationIDKey = "correlation_id"
)

type correlationContextKey struct{}

// CorrelationID tags every request with a correlation id, minting one when the
// client did not send one. The id is echoed on the response, stored in the gin
// context for handlers, and attached to the request context so services and
// repositories can log it.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, correlationID)
		c.Set(CorrelationIDKey, correlationID)

		ctx := context.WithValue(c.Request.Context(), correlationContextKey{}, correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCorrelationID returns the correlation id from the gin context, or "" when
// the middleware did not run
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}

// CorrelationIDFromContext returns the correlation id carried on a request
// context, or "" when none is set
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationContextKey{}).(string); ok {
		return id
	}
	return ""
}
