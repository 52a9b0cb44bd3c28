// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-pool/models"
)

// SQLStore implements Store on database/sql. Queries use $N placeholders,
// understood by both lib/pq and modernc.org/sqlite.
type SQLStore struct {
	db *sql.DB
}

func New(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	return &sqlTx{tx: tx}, nil
}

func (s *SQLStore) CountPools(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pool`).Scan(&count)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to count pools: %w", err))
	}
	return count, nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) InsertPool(ctx context.Context, title, code string, ownerID *string) (models.Pool, error) {
	pool := models.Pool{
		ID:        uuid.NewString(),
		Title:     title,
		Code:      code,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO pool (id, title, code, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pool.ID, pool.Title, pool.Code, pool.OwnerID, pool.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Pool{}, fmt.Errorf("%w: %s", ErrCodeTaken, code)
		}
		return models.Pool{}, classify(fmt.Errorf("failed to insert pool: %w", err))
	}

	return pool, nil
}

func (t *sqlTx) InsertParticipant(ctx context.Context, poolID, userID string) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO participant (pool_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`, poolID, userID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyParticipant
		}
		return classify(fmt.Errorf("failed to insert participant: %w", err))
	}
	return nil
}

func (t *sqlTx) FindPoolByCode(ctx context.Context, code, userID string) (models.Pool, bool, error) {
	var pool models.Pool
	var member bool
	err := t.tx.QueryRowContext(ctx, `
		SELECT p.id, p.title, p.code, p.owner_id, p.created_at,
		       EXISTS (
		           SELECT 1 FROM participant pt
		           WHERE pt.pool_id = p.id AND pt.user_id = $2
		       )
		FROM pool p
		WHERE p.code = $1
	`, code, userID).Scan(
		&pool.ID, &pool.Title, &pool.Code, &pool.OwnerID, &pool.CreatedAt, &member,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Pool{}, false, ErrNotFound
	}
	if err != nil {
		return models.Pool{}, false, classify(fmt.Errorf("failed to query pool: %w", err))
	}
	return pool, member, nil
}

func (t *sqlTx) ClaimOwnerIfUnset(ctx context.Context, poolID, userID string) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE pool
		SET owner_id = $1
		WHERE id = $2 AND owner_id IS NULL
	`, userID, poolID)
	if err != nil {
		return false, classify(fmt.Errorf("failed to claim owner: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}
	return n == 1, nil
}

func (t *sqlTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func (t *sqlTx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
