// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Pool API server.

Quickly Pool manages shared prediction pools: a user creates a pool, gets a
six character join code, and friends join with that code. The first
authenticated member of a pool owns it.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=pools.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret ...

A .env file in the working directory (or the file named by ENV_FILE) is
loaded first. Real environment variables win over it and flags win over
both.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): HS256 secret for bearer tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - JWT_ISSUER, JWT_AUDIENCE: expected token claims when set
  - MAX_CODE_ATTEMPTS, MAX_JOIN_ATTEMPTS, OPERATION_TIMEOUT: retry tuning
  - JOIN_RATE_LIMIT: per-IP join limit (default: 60-M)
  - CORS_ORIGIN, LOG_LEVEL, LOG_FORMAT

# Architecture

  - pools: create/join/count orchestration and retry policy
  - store: transactional persistence over database/sql
  - joincode: join code generation and format checks
  - auth: bearer token verification
  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: logging, metrics, rate limiting, CORS, JSON helpers
  - models: domain and request/response types
  - db: connection opening and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
