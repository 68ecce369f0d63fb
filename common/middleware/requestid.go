package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const TrafficKey = "X-Request-Id"

// RequestId propagates the inbound request id header, generating one when
// the caller did not send any.
func RequestId(trafficKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(trafficKey)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		c.Set(trafficKey, requestId)
		c.Header(trafficKey, requestId)
		c.Next()
	}
}
