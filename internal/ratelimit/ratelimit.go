// Package ratelimit provides a redis-backed rate limiting middleware
// for the public API.
package ratelimit

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Middleware builds a gin middleware enforcing the given rate, e.g.
// "120-M" for 120 requests per minute per client IP.
func Middleware(client *redis.Client, format string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return nil, fmt.Errorf("invalid rate format %q: %w", format, err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "weconnect:ratelimit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit store: %w", err)
	}

	return mgin.NewMiddleware(limiter.New(store, rate)), nil
}
