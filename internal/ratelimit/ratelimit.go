// Package ratelimit throttles the credential endpoints with a
// redis-backed fixed window, keyed by client IP.
package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	RDB    *redis.Client
	Limit  int
	Window time.Duration
}

// New builds a limiter. A nil redis client disables limiting entirely,
// which keeps local development working without a redis instance.
func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{RDB: rdb, Limit: limit, Window: window}
}

// Middleware counts requests per IP per route within the window and
// rejects the overflow with 429. Redis outages fail open.
func (l *Limiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.RDB == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := l.RDB.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			l.RDB.Expire(ctx, key, l.Window)
		}

		if count > int64(l.Limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "çok fazla istek, lütfen bekleyin"})
			c.Abort()
			return
		}
		c.Next()
	}
}
