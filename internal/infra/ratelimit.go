package infra

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/commhub/message-service/internal/config"
)

// RateLimiter applies a fixed-window per-client limit backed by a shared
// counter, so all replicas of the service enforce one budget.
type RateLimiter struct {
	counter  Counter
	requests int
	window   time.Duration
}

func NewRateLimiter(counter Counter, cfg config.RateLimitCfg) *RateLimiter {
	return &RateLimiter{
		counter:  counter,
		requests: cfg.Requests,
		window:   cfg.Window,
	}
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		key := rl.windowKey(clientIP(r), time.Now())

		count, err := rl.counter.Incr(ctx, key)
		if err != nil {
			// Fail open: a counter outage must not take down the API.
			zerolog.Ctx(ctx).Warn().Err(err).Msg("rate limit counter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		if count == 1 {
			if err := rl.counter.Expire(ctx, key, rl.window); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to set rate limit window expiry")
			}
		}

		if count > int64(rl.requests) {
			rateLimitRejections.Inc()
			writeAuthError(w, r, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) windowKey(ip string, now time.Time) string {
	windowSeconds := int64(rl.window.Seconds())
	if windowSeconds < 1 {
		windowSeconds = 1
	}

	return fmt.Sprintf("ratelimit:%s:%d", ip, now.Unix()/windowSeconds)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
