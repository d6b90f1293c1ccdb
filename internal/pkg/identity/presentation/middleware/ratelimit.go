package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/ratelimit"
)

// RateLimit throttles by client IP before authentication runs, so
// unauthenticated floods never reach the credential check. A nil limiter
// disables throttling (local development without Redis).
func RateLimit(limiter *ratelimit.Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), c.ClientIP(), limit, window)
		if err != nil {
			// Redis being down should degrade to open, not lock everyone out.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(time.Until(res.ResetAt).Seconds())+1, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
