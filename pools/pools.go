// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-pool/joincode"
	"github.com/danielhkuo/quickly-pool/models"
	"github.com/danielhkuo/quickly-pool/store"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("pool not found")
	ErrAlreadyMember   = errors.New("already joined this pool")
	ErrUnavailable     = errors.New("pool service temporarily unavailable")
)

// Defaults used when Config leaves a field zero
const (
	DefaultMaxCodeAttempts  = 5
	DefaultMaxJoinAttempts  = 3
	DefaultOperationTimeout = 5 * time.Second
)

type Config struct {
	MaxCodeAttempts  int
	MaxJoinAttempts  int
	OperationTimeout time.Duration
}

// Service runs the pool membership protocol. It holds no mutable state;
// every invariant is enforced by the store inside one transaction per call.
type Service struct {
	store store.Store
	codes joincode.Generator
	cfg   Config
}

func NewService(s store.Store, codes joincode.Generator, cfg Config) *Service {
	if cfg.MaxCodeAttempts <= 0 {
		cfg.MaxCodeAttempts = DefaultMaxCodeAttempts
	}
	if cfg.MaxJoinAttempts <= 0 {
		cfg.MaxJoinAttempts = DefaultMaxJoinAttempts
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = DefaultOperationTimeout
	}
	return &Service{store: s, codes: codes, cfg: cfg}
}

// JoinResult describes a successful join.
type JoinResult struct {
	PoolID string
	// ClaimedOwner is true when this join made the caller the owner.
	ClaimedOwner bool
}

// CreatePool creates a pool with a fresh join code. An empty userID creates
// an unclaimed pool with no participants; otherwise the caller becomes owner
// and first participant in the same transaction.
func (s *Service) CreatePool(ctx context.Context, title, userID string) (models.Pool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Pool{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return models.Pool{}, fmt.Errorf("failed to generate join code: %w", err)
		}

		pool, err := s.insertPool(ctx, title, code, userID)
		switch {
		case err == nil:
			createdTotal.WithLabelValues(ownerLabel(userID)).Inc()
			slog.Info("pool created", "pool_id", pool.ID, "code", pool.Code, "owned", pool.Claimed())
			return pool, nil
		case errors.Is(err, store.ErrCodeTaken):
			codeCollisions.Inc()
			slog.Warn("join code collision, retrying", "code", code, "attempt", attempt)
		case errors.Is(err, store.ErrConflict):
			slog.Warn("transient conflict creating pool, retrying", "error", err, "attempt", attempt)
		default:
			return models.Pool{}, unavailableOr(err)
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return models.Pool{}, fmt.Errorf("%w: could not create pool after %d attempts: %v",
		ErrUnavailable, s.cfg.MaxCodeAttempts, lastErr)
}

func (s *Service) insertPool(ctx context.Context, title, code, userID string) (models.Pool, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return models.Pool{}, err
	}
	defer tx.Rollback()

	var ownerID *string
	if userID != "" {
		ownerID = &userID
	}

	pool, err := tx.InsertPool(ctx, title, code, ownerID)
	if err != nil {
		return models.Pool{}, err
	}

	if userID != "" {
		if err := tx.InsertParticipant(ctx, pool.ID, userID); err != nil {
			return models.Pool{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Pool{}, err
	}
	return pool, nil
}

// JoinPool adds userID to the pool identified by code. When the pool has no
// owner the joiner claims it; if a concurrent join wins that claim the caller
// still joins as a regular participant.
func (s *Service) JoinPool(ctx context.Context, code, userID string) (JoinResult, error) {
	if userID == "" {
		joinsTotal.WithLabelValues(outcomeUnauthenticated).Inc()
		return JoinResult{}, ErrUnauthenticated
	}
	if !joincode.Valid(code) {
		joinsTotal.WithLabelValues(outcomeInvalid).Inc()
		return JoinResult{}, fmt.Errorf("%w: code must be %d uppercase letters or digits",
			ErrValidation, joincode.Length)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxJoinAttempts; attempt++ {
		res, err := s.join(ctx, code, userID)
		switch {
		case err == nil:
			joinsTotal.WithLabelValues(outcomeJoined).Inc()
			if res.ClaimedOwner {
				ownerClaims.Inc()
			}
			slog.Info("pool joined", "pool_id", res.PoolID, "user_id", userID, "claimed_owner", res.ClaimedOwner)
			return res, nil
		case errors.Is(err, store.ErrNotFound):
			joinsTotal.WithLabelValues(outcomeNotFound).Inc()
			return JoinResult{}, ErrNotFound
		case errors.Is(err, store.ErrAlreadyParticipant):
			joinsTotal.WithLabelValues(outcomeAlreadyMember).Inc()
			return JoinResult{}, ErrAlreadyMember
		case errors.Is(err, store.ErrConflict):
			slog.Warn("transient conflict joining pool, retrying", "error", err, "attempt", attempt)
		default:
			joinsTotal.WithLabelValues(outcomeFailed).Inc()
			return JoinResult{}, unavailableOr(err)
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	joinsTotal.WithLabelValues(outcomeFailed).Inc()
	return JoinResult{}, fmt.Errorf("%w: could not join pool after %d attempts: %v",
		ErrUnavailable, s.cfg.MaxJoinAttempts, lastErr)
}

// join performs lookup, membership check, owner claim and insert in one
// transaction. The unique key on (pool_id, user_id) catches a duplicate
// join that raced past the membership check.
func (s *Service) join(ctx context.Context, code, userID string) (JoinResult, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return JoinResult{}, err
	}
	defer tx.Rollback()

	pool, member, err := tx.FindPoolByCode(ctx, code, userID)
	if err != nil {
		return JoinResult{}, err
	}
	if member {
		return JoinResult{}, store.ErrAlreadyParticipant
	}

	var claimed bool
	if !pool.Claimed() {
		claimed, err = tx.ClaimOwnerIfUnset(ctx, pool.ID, userID)
		if err != nil {
			return JoinResult{}, err
		}
	}

	if err := tx.InsertParticipant(ctx, pool.ID, userID); err != nil {
		return JoinResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return JoinResult{}, err
	}
	return JoinResult{PoolID: pool.ID, ClaimedOwner: claimed}, nil
}

// CountPools returns the total number of pools.
func (s *Service) CountPools(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	count, err := s.store.CountPools(ctx)
	if err != nil {
		return 0, unavailableOr(err)
	}
	return count, nil
}

// unavailableOr maps timeouts, cancellation and transient conflicts to
// ErrUnavailable and returns everything else unchanged.
func unavailableOr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, store.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func ownerLabel(userID string) string {
	if userID == "" {
		return "unclaimed"
	}
	return "owned"
}
