package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/fittrack-backend/pkg/clientip"
	"github.com/AnshRaj112/fittrack-backend/pkg/response"
)

const (
	// RateLimitWindow is the fixed window length.
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the number of API calls allowed per IP per window.
	RateLimitMaxRequests = 120
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting.
	RateLimitKeyPrefix = "ratelimit:"
)

// APIRateLimit is a Redis fixed-window limiter shared by all server
// instances. When Redis is unavailable requests are let through.
func APIRateLimit(rdb *redis.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := RateLimitKeyPrefix + clientip.RealClientIP(r)

			// EXPIRE NX in the same transaction: a counter can never be left without a TTL
			pipe := rdb.TxPipeline()
			incr := pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			ttl := pipe.TTL(ctx, key)
			if _, err := pipe.Exec(ctx); err != nil {
				slog.Warn("rate limiter unavailable", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			count := incr.Val()
			reset := ttl.Val()
			if reset <= 0 {
				reset = window
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(limit-int(count), 0)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

			if int(count) > limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(reset.Seconds())))
				response.TooManyRequests(w, "Rate limit exceeded. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
