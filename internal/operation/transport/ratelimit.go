package transport

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute matches the upstream's documented cap.
const DefaultRequestsPerMinute = 300

// rateLimiterAdapter adapts rate.Limiter to the RateLimiter interface.
type rateLimiterAdapter struct {
	limiter *rate.Limiter
}

// NewRateLimiter returns a limiter that spaces requests evenly so that no
// more than perMinute are sent in any minute. A burst of up to five requests
// is allowed. perMinute <= 0 disables pacing and returns nil.
func NewRateLimiter(perMinute int) RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	burst := 5
	if perMinute < burst {
		burst = perMinute
	}
	every := time.Minute / time.Duration(perMinute)
	return &rateLimiterAdapter{limiter: rate.NewLimiter(rate.Every(every), burst)}
}

// Wait blocks until a request is allowed.
func (r *rateLimiterAdapter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
