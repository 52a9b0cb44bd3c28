// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Portable between PostgreSQL and SQLite.
const schema = `
-- Pools
CREATE TABLE IF NOT EXISTS pool (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL CHECK (title <> ''),
    code TEXT NOT NULL UNIQUE,
    owner_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pool_owner_id ON pool(owner_id);

-- Participants
CREATE TABLE IF NOT EXISTS participant (
    pool_id TEXT NOT NULL REFERENCES pool(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (pool_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_participant_user_id ON participant(user_id);
`
