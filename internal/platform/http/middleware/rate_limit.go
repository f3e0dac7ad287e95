package middleware

import (
	"github.com/gin-gonic/gin"

	"country_explorer/internal/shared/apperr"
	"country_explorer/internal/shared/ratelimiter"
)

// MsgTooManyRequests is returned when a client exceeds the limit.
const MsgTooManyRequests = "Too many requests, please try again later"

// RateLimit rejects requests from a client IP that exceeded the limiter's window.
// The rejection is pushed with c.Error so ErrorHandler renders it.
func RateLimit(l ratelimiter.RateLimiterInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			_ = c.Error(apperr.TooManyRequests(MsgTooManyRequests))
			c.Abort()
			return
		}
		c.Next()
	}
}
