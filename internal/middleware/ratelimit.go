package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit applies a token-bucket limit to a route group. Used on
// the auth and alert-posting endpoints.
func RateLimit(rps int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), rps)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"success": false,
					"message": "Too many requests",
				})
				return
			}
			c.HTML(http.StatusTooManyRequests, "error.html", gin.H{
				"Code":    http.StatusTooManyRequests,
				"Title":   "Slow down",
				"Message": "Too many requests. Please try again in a moment.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
