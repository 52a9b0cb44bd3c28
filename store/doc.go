// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists pools and participants.

# Transactions

Every multi-step change goes through a Tx:

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pool, member, err := tx.FindPoolByCode(ctx, code, userID)
	...
	return tx.Commit()

# Errors

Driver errors are translated so callers never inspect SQL state codes:

  - ErrCodeTaken: InsertPool hit the unique index on pool.code
  - ErrAlreadyParticipant: InsertParticipant hit the (pool_id, user_id) key
  - ErrNotFound: FindPoolByCode matched nothing
  - ErrConflict: serialization failure, deadlock or busy database;
    the whole transaction can be retried

Both lib/pq (*pq.Error) and modernc.org/sqlite (*sqlite.Error) errors are
recognized.

# Owner Claims

ClaimOwnerIfUnset is a conditional update:

	UPDATE pool SET owner_id = $1 WHERE id = $2 AND owner_id IS NULL

When two joins race, the database row lock lets exactly one of them see
owner_id IS NULL.
*/
package store
