// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-pool/auth"
	"github.com/danielhkuo/quickly-pool/cliparse"
	"github.com/danielhkuo/quickly-pool/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      ":memory:",
		DatabaseType:     db.TypeSQLite,
		JWTSecret:        "test-jwt-secret",
		JWTIssuer:        "quickly-pool",
		JWTAudience:      "quickly-pool-api",
		MaxCodeAttempts:  5,
		MaxJoinAttempts:  3,
		OperationTimeout: 5 * time.Second,
		LogLevel:         "error",
		LogFormat:        "text",
	}
}

// NewTestAuth returns token auth matching GetTestConfig
func NewTestAuth(cfg cliparse.Config) *auth.TokenAuth {
	return auth.NewTokenAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
}

// IssueTestToken signs a one-hour token for userID
func IssueTestToken(t *testing.T, cfg cliparse.Config, userID string) string {
	t.Helper()

	token, err := NewTestAuth(cfg).Issue(userID, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// BearerHeader returns request headers carrying a token for userID
func BearerHeader(t *testing.T, cfg cliparse.Config, userID string) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + IssueTestToken(t, cfg, userID)}
}

// InsertTestPool writes a pool row directly and returns its ID.
// ownerID may be empty for an unclaimed pool.
func InsertTestPool(t *testing.T, conn *sql.DB, code, ownerID string) string {
	t.Helper()

	poolID := "pool-" + code
	var owner *string
	if ownerID != "" {
		owner = &ownerID
	}

	_, err := conn.Exec(`
		INSERT INTO pool (id, title, code, owner_id, created_at)
		VALUES ($1, 'Test Pool', $2, $3, $4)
	`, poolID, code, owner, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test pool: %v", err)
	}

	if ownerID != "" {
		_, err = conn.Exec(`
			INSERT INTO participant (pool_id, user_id, created_at)
			VALUES ($1, $2, $3)
		`, poolID, ownerID, time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to create test participant: %v", err)
		}
	}

	return poolID
}

// PoolOwner returns the owner of the pool, or "" when unclaimed
func PoolOwner(t *testing.T, conn *sql.DB, poolID string) string {
	t.Helper()

	var owner sql.NullString
	if err := conn.QueryRow(`SELECT owner_id FROM pool WHERE id = $1`, poolID).Scan(&owner); err != nil {
		t.Fatalf("Failed to query pool owner: %v", err)
	}
	return owner.String
}

// CountParticipants returns the number of participants in the pool
func CountParticipants(t *testing.T, conn *sql.DB, poolID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM participant WHERE pool_id = $1`, poolID).Scan(&n); err != nil {
		t.Fatalf("Failed to count participants: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
