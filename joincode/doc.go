// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package joincode generates the short codes people share to join a pool.

# Format

A join code is 6 symbols from 0-9 and A-Z:

	gen := joincode.NewRandom()
	code, err := gen.Generate() // e.g. "AB12CD"

That gives 36^6 (about 2.2 billion) codes. At 100k pools the chance that a
single new code collides with an existing one stays below 1 in 20k, and the
pool service retries with a fresh code when the database rejects a
duplicate.

# Validation

	joincode.Valid("AB12CD") // true
	joincode.Valid("ab12cd") // false, codes are case-sensitive

The generator never talks to storage. Uniqueness is enforced by the unique
index on pool.code.
*/
package joincode
