// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Pool API.

PoolHandler adapts pools.Service to JSON over HTTP:

	h := handlers.NewPoolHandler(svc, auth.NewTokenAuth(secret, issuer, audience))

Request bodies are checked with go-playground/validator before reaching the
service.

# Authentication

POST /pools treats the bearer token as optional. A missing or invalid token
creates an unclaimed pool; the failure is only logged at debug level.

POST /pools/join rejects a request without a valid token with 401 before
reading the body.

# Error Mapping

	pools.ErrValidation      → 400 invalid_request
	pools.ErrUnauthenticated → 401 unauthorized
	pools.ErrNotFound        → 404 not_found
	pools.ErrAlreadyMember   → 409 already_member
	pools.ErrUnavailable     → 503 unavailable
	anything else            → 500 internal_error

A successful join answers 201 with an empty body.
*/
package handlers
