// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Both lines carry the chi request id when one is set.

# Metrics

WithMetrics records a request duration histogram labelled by method, route
pattern and status:

	mux.HandleFunc("POST /pools", middleware.WithMetrics("/pools", h))

# Rate Limiting

NewIPRateLimiter builds a per-IP limiter from a formatted rate such as
"60-M". Rejected requests get 429 with code "rate_limited". Clients are
keyed by socket address; forwarded headers count only when the limiter is
told to trust them.

# CORS and Security Headers

	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	handler = middleware.Secure()(handler)

An empty origin answers "*" without credentials. A configured origin is
sent as is, with credentials allowed.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ErrorResponseWithCode(w, http.StatusConflict, middleware.CodeAlreadyMember, "message")

Error bodies carry the status text, a stable machine-readable code and an
optional message.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for logging. The rate limiter does not key on it because clients can
set these headers freely.
*/
package middleware
