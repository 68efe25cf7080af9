package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// RateLimitMiddleware counts requests per client and route in a fixed Redis
// window. Signed-in callers are keyed by user id, everyone else by IP.
// Requests pass when Redis is unreachable.
func RateLimitMiddleware(rdb redis.Cmdable, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientKey(r)
			key := config.KeyPrefix + ":" + r.URL.Path + ":" + clientID
			ctx := r.Context()

			var incr *redis.IntCmd
			var ttl *redis.DurationCmd
			_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(ctx, key)
				pipe.ExpireNX(ctx, key, config.Window)
				ttl = pipe.TTL(ctx, key)
				return nil
			})
			if err != nil {
				logger.Error("Failed to increment rate limit counter", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			count := incr.Val()
			reset := ttl.Val()
			if reset <= 0 {
				reset = config.Window
			}

			w.Header().Set("X-RateLimit-Limit", limit)

			if count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.String("path", r.URL.Path),
					zap.Int64("count", count),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(reset.Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(config.RequestsPerWindow)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + userID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
