package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/bookflaz/bookflaz/internal/redis"
)

type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{redis: redisClient}
}

// Limit caps requests per client IP over a sliding window. Failures of the
// limiter itself never block the request.
func (rl *RateLimiter) Limit(limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.redis == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			result, err := rl.redis.CheckRateLimit(r.Context(), "ip:"+ip+":"+r.URL.Path, limit, window)
			if err != nil {
				GetLogger(r.Context()).Warn().Err(err).Msg("rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}
			if !result.Allowed {
				w.Header().Set("Retry-After", result.ResetAt.UTC().Format(http.TimeFormat))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
