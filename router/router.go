// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-pool/auth"
	"github.com/danielhkuo/quickly-pool/cliparse"
	"github.com/danielhkuo/quickly-pool/handlers"
	"github.com/danielhkuo/quickly-pool/middleware"
	"github.com/danielhkuo/quickly-pool/pools"
)

func NewRouter(svc *pools.Service, verifier auth.Verifier, cfg cliparse.Config) (http.Handler, error) {
	mux := http.NewServeMux()

	joinLimit, err := middleware.NewIPRateLimiter(cfg.JoinRateLimit, cfg.TrustForwardHeader)
	if err != nil {
		return nil, fmt.Errorf("invalid join rate limit %q: %w", cfg.JoinRateLimit, err)
	}

	// Initialize handlers
	poolHandler := handlers.NewPoolHandler(svc, verifier)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Pools
	mux.HandleFunc("GET /pools/count", route("/pools/count", poolHandler.CountPools))
	mux.HandleFunc("POST /pools", route("/pools", poolHandler.CreatePool))
	// Join codes are guessable by brute force, so joins are rate limited per IP
	mux.Handle("POST /pools/join", joinLimit(route("/pools/join", poolHandler.JoinPool)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-pool API v1"))
	})

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	handler = middleware.Secure()(handler)
	handler = chimw.Recoverer(handler)
	handler = chimw.RequestID(handler)

	return handler, nil
}

// route applies per-route logging and metrics
func route(pattern string, h http.HandlerFunc) http.HandlerFunc {
	return middleware.WithLogging(middleware.WithMetrics(pattern, h))
}
