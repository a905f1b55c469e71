package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"batchtrace/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter caps requests per client IP using a fixed one-minute window
// counter in Redis. On Redis failure the request passes through.
func RateLimiter(rdb *redis.Client, maxPerMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), time.Now().Format("200601021504"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 200*time.Millisecond)
		defer cancel()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, passing request")
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, time.Minute)
		}
		if count > int64(maxPerMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.APIError{Detail: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
