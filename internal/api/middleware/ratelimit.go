package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerrors "pipecheck/internal/core/errors"
	"pipecheck/internal/shared/observability"
	"pipecheck/internal/shared/util"
)

// RateLimit rejects clients that exceed their token bucket with 429. Buckets
// are keyed by client IP.
func RateLimit(registry *util.LimiterRegistry, perSecond float64) gin.HandlerFunc {
	retryAfter := "1"
	if perSecond > 0 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / perSecond)))
	}
	return func(c *gin.Context) {
		if registry == nil || registry.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		observability.RateLimitedTotal.Inc()
		c.Header("Retry-After", retryAfter)
		AbortWithError(c, domainerrors.New(domainerrors.CodeRateLimited, "rate limit exceeded"))
	}
}
