package http

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type RateLimitOptions struct {
	PerSecond float64
	Burst     int
}

// rateLimitMiddleware applies a token bucket per client IP. Zero
// options disable the limiter.
func rateLimitMiddleware(opts RateLimitOptions) echo.MiddlewareFunc {
	if opts.PerSecond <= 0 || opts.Burst <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(opts.PerSecond), opts.Burst)
			limiters[ip] = l
		}
		return l
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiterFor(c.RealIP()).Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
