// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/danielhkuo/quickly-pool/models"
)

var (
	ErrNotFound           = errors.New("pool not found")
	ErrCodeTaken          = errors.New("join code already in use")
	ErrAlreadyParticipant = errors.New("user already participates in pool")
	// ErrConflict marks transient failures (serialization, deadlock, busy
	// database) where retrying the whole transaction may succeed.
	ErrConflict = errors.New("transient store conflict")
)

// Store is the transactional persistence used by the pool service.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	CountPools(ctx context.Context) (int, error)
}

// Tx groups pool and participant writes into one atomic unit.
// Rollback after Commit is a no-op.
type Tx interface {
	// InsertPool stores a new pool. ownerID may be nil. Returns ErrCodeTaken
	// when another pool already uses code.
	InsertPool(ctx context.Context, title, code string, ownerID *string) (models.Pool, error)

	// InsertParticipant records membership. Returns ErrAlreadyParticipant
	// when the pair exists.
	InsertParticipant(ctx context.Context, poolID, userID string) error

	// FindPoolByCode returns the pool with code and whether userID already
	// participates in it. Returns ErrNotFound when no pool matches.
	FindPoolByCode(ctx context.Context, code, userID string) (models.Pool, bool, error)

	// ClaimOwnerIfUnset sets the owner only if the pool has none and
	// reports whether this call set it.
	ClaimOwnerIfUnset(ctx context.Context, poolID, userID string) (bool, error)

	Commit() error
	Rollback() error
}
