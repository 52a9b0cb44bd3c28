// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pools implements pool creation and membership.

# Creating Pools

	svc := pools.NewService(store.New(conn), joincode.NewRandom(), pools.Config{})
	pool, err := svc.CreatePool(ctx, "World Cup", userID)

userID may be empty. An authenticated creator becomes owner and first
participant in the same transaction. An anonymous creator gets an
unclaimed pool with no participants.

Codes are generated, inserted, and regenerated when the unique index
rejects them, up to Config.MaxCodeAttempts times.

# Joining Pools

	res, err := svc.JoinPool(ctx, "AB12CD", userID)

One transaction looks the pool up, checks membership, claims ownership if
the pool is unclaimed, and inserts the participant. Concurrent first joins
race on a conditional update; the loser joins as a regular participant.

# Errors

Outcomes are sentinel errors checked with errors.Is:

  - ErrValidation: empty title or malformed code
  - ErrUnauthenticated: join without a user
  - ErrNotFound: no pool has the code
  - ErrAlreadyMember: the user already joined
  - ErrUnavailable: retries exhausted or the operation timed out

# Ownership

	Unclaimed ──(authenticated create | first join)──▶ Claimed

Nothing leaves Claimed.

Creating a pool without a valid identity is allowed on purpose and yields
an unclaimed pool. Whether anonymous creation should be rejected is still
an open product question; keep the behaviour until that is settled.
*/
package pools
