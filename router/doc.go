// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Pool API.

# Route Registration

NewRouter wires the pool handler onto an http.ServeMux and wraps it with
request ids, panic recovery, security headers and CORS:

	handler, err := router.NewRouter(svc, verifier, cfg)

It fails only when cfg.JoinRateLimit cannot be parsed.

# Endpoints

	GET  /health      - Liveness
	GET  /metrics     - Prometheus scrape
	GET  /pools/count - Number of pools
	POST /pools       - Create pool (bearer token optional)
	POST /pools/join  - Join by code (bearer token required, rate limited per IP)

Pool routes are logged and timed individually.
*/
package router
