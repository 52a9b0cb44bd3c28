// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves requests to verified user identities.

# Verifier

Handlers depend on the Verifier interface:

	userID, err := verifier.Verify(r)
	if errors.Is(err, auth.ErrUnauthenticated) {
		// no usable identity
	}

Joining a pool requires a verified identity. Creating a pool only tries
verification and falls back to an ownerless pool when it fails.

# Bearer Tokens

TokenAuth checks HS256 JWTs sent as:

	Authorization: Bearer <token>

A token is accepted when the signature matches the shared secret, exp is
present and in the future, iss and aud match when configured, and sub is
non-empty. The subject becomes the user ID.

Tokens are normally minted by the identity service. Issue exists for local
development and tests:

	a := auth.NewTokenAuth(secret, "quickly-pool", "quickly-pool-api")
	token, err := a.Issue("user-123", time.Hour)
*/
package auth
