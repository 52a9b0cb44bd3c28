// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePoolRequest: title
  - JoinPoolRequest: code (6 uppercase alphanumerics)

Validation rules live in `validate` struct tags and are checked by the
handlers with go-playground/validator.

# Response Types

Types for JSON responses:

  - CreatePoolResponse: pool_id, code
  - CountPoolsResponse: count
  - ErrorResponse: error, code, message

# Domain Types

  - Pool: title, join code and optional owner
  - Participant: one (pool, user) membership

A Pool with a nil OwnerID is unclaimed. The first authenticated joiner
claims it; once set the owner never changes.
*/
package models
