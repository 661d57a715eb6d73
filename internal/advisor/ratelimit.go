package advisor

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/sanchay/advisor-engine/internal/logger"
)

// RateLimit returns middleware that admits at most rps requests per
// second across the service, with bursts of up to burst. A non-positive
// rps disables limiting.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	retryAfter := strconv.Itoa(max(int(1/rps), 1))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.FromContext(r.Context()).Warn("rate limit exceeded", "path", r.URL.Path)
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
