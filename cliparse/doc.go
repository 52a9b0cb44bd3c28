// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are resolved in this order, later wins:

 1. defaults (envDefault tags)
 2. a .env file (path from ENV_FILE), never overriding real variables
 3. environment variables (parsed with caarlos0/env)
 4. CLI flags

# Config Fields

  - Port (PORT, -p): Server listen port (default: 3318)
  - DatabaseURL (DATABASE_URL, -d): connection string (required)
  - DatabaseType (DATABASE_TYPE, -t): sqlite or postgres (default: sqlite)
  - JWTSecret (JWT_SECRET, --jwt-secret): HS256 secret (required)
  - JWTIssuer / JWTAudience (JWT_ISSUER, JWT_AUDIENCE): checked when set
  - MaxCodeAttempts (MAX_CODE_ATTEMPTS, --code-attempts): default 5
  - MaxJoinAttempts (MAX_JOIN_ATTEMPTS, --join-attempts): default 3
  - OperationTimeout (OPERATION_TIMEOUT, --timeout): default 5s
  - JoinRateLimit (JOIN_RATE_LIMIT, --join-rate): default 60-M
  - TrustForwardHeader (TRUST_FORWARD_HEADER, --trust-forward-header): default false
  - CORSOrigin (CORS_ORIGIN, --cors-origin)
  - LogLevel / LogFormat (LOG_LEVEL, LOG_FORMAT)

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
*/
package cliparse
