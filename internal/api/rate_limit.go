package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimitPerUser limits a route per resolved user. A nil limiter or a non-positive limit
// disables limiting. Must run after AuthMiddleware.
func RateLimitPerUser(rateLimiter RequestRateLimiter, routeName string, allowedPerHour int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimiter == nil || allowedPerHour <= 0 {
			c.Next()
			return
		}

		userID, ok := mustUserID(c)
		if !ok {
			return
		}

		res, err := rateLimiter.Allow(
			c.Request.Context(),
			fmt.Sprintf("%s::%s", routeName, userID.Hex()),
			redis_rate.PerHour(allowedPerHour),
		)
		if err != nil {
			log.Errorf("rate limiter failed for %s: %s", routeName, err)
			abortWithError(c, http.StatusInternalServerError, "rate limit internal error")
			return
		}

		if res.Allowed > 0 {
			c.Next()
			return
		}

		abortWithError(c, http.StatusTooManyRequests, fmt.Sprintf("retry after %.0f seconds", res.RetryAfter.Seconds()))
	}
}
