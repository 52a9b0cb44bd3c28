// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Connections

Open supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:pools.db")

SQLite connections get foreign keys and a busy timeout through _pragma
parameters and are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - pool: title, join code, optional owner
  - participant: one row per (pool, user)

# Constraints

The constraints are what keep concurrent requests honest:

  - pool.code UNIQUE: no two pools share a join code
  - participant PRIMARY KEY (pool_id, user_id): a user joins a pool once

	pool 1──* participant

participant.pool_id uses ON DELETE CASCADE.
*/
package db
