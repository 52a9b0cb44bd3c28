// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewIPRateLimiter limits requests per client IP with an in-memory store.
// rateFormatted uses limiter notation: "60-M", "1000-H", "5-S".
// An empty rate disables limiting.
// The key is the socket address unless trustForwardHeader is set, in which
// case X-Forwarded-For and X-Real-IP are honoured.
func NewIPRateLimiter(rateFormatted string, trustForwardHeader bool) (func(http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(memory.NewStore(), rate,
		limiter.WithTrustForwardHeader(trustForwardHeader))
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit reached", "path", r.URL.Path, "ip", GetClientIP(r))
			ErrorResponse(w, http.StatusTooManyRequests, "Too many requests, slow down")
		}),
	)
	return mw.Handler, nil
}
