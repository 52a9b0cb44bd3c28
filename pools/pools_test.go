// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-pool/joincode"
	"github.com/danielhkuo/quickly-pool/models"
	"github.com/danielhkuo/quickly-pool/store"
	"github.com/danielhkuo/quickly-pool/testutil"
)

func newTestService(t *testing.T, codes joincode.Generator) (*Service, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	if codes == nil {
		codes = joincode.NewRandom()
	}
	return NewService(store.New(conn), codes, Config{}), conn
}

// sequence returns the given codes in order, repeating the last one
func sequence(codes ...string) joincode.Generator {
	var i atomic.Int32
	return joincode.GeneratorFunc(func() (string, error) {
		n := int(i.Add(1)) - 1
		if n >= len(codes) {
			n = len(codes) - 1
		}
		return codes[n], nil
	})
}

// flakyStore fails the first n transactions with a transient conflict
type flakyStore struct {
	store.Store
	failures atomic.Int32
	begins   atomic.Int32
}

func (f *flakyStore) Begin(ctx context.Context) (store.Tx, error) {
	f.begins.Add(1)
	if f.failures.Add(-1) >= 0 {
		return nil, fmt.Errorf("%w: database is locked", store.ErrConflict)
	}
	return f.Store.Begin(ctx)
}

// untouchedStore fails the test if the service reaches storage
type untouchedStore struct {
	t *testing.T
}

func (u untouchedStore) Begin(context.Context) (store.Tx, error) {
	u.t.Error("store was accessed")
	return nil, errors.New("unexpected store access")
}

func (u untouchedStore) CountPools(context.Context) (int, error) {
	u.t.Error("store was accessed")
	return 0, errors.New("unexpected store access")
}

func TestNewService_Defaults(t *testing.T) {
	s := NewService(nil, nil, Config{})
	if s.cfg.MaxCodeAttempts != DefaultMaxCodeAttempts ||
		s.cfg.MaxJoinAttempts != DefaultMaxJoinAttempts ||
		s.cfg.OperationTimeout != DefaultOperationTimeout {
		t.Errorf("unexpected defaults: %+v", s.cfg)
	}
}

func TestCreatePool_Unauthenticated(t *testing.T) {
	svc, conn := newTestService(t, nil)

	pool, err := svc.CreatePool(context.Background(), "World Cup", "")
	if err != nil {
		t.Fatalf("CreatePool() error = %v", err)
	}

	if !joincode.Valid(pool.Code) {
		t.Errorf("invalid code %q", pool.Code)
	}
	if pool.Claimed() {
		t.Errorf("expected unclaimed pool, got owner %q", *pool.OwnerID)
	}
	if got := testutil.PoolOwner(t, conn, pool.ID); got != "" {
		t.Errorf("stored owner = %q, want none", got)
	}
	if n := testutil.CountParticipants(t, conn, pool.ID); n != 0 {
		t.Errorf("expected 0 participants, got %d", n)
	}
}

func TestCreatePool_Authenticated(t *testing.T) {
	svc, conn := newTestService(t, nil)

	pool, err := svc.CreatePool(context.Background(), "  Euro 2028 ", "user-1")
	if err != nil {
		t.Fatalf("CreatePool() error = %v", err)
	}

	if pool.Title != "Euro 2028" {
		t.Errorf("expected trimmed title, got %q", pool.Title)
	}
	if got := testutil.PoolOwner(t, conn, pool.ID); got != "user-1" {
		t.Errorf("owner = %q, want user-1", got)
	}
	if n := testutil.CountParticipants(t, conn, pool.ID); n != 1 {
		t.Errorf("expected creator as the only participant, got %d", n)
	}
}

func TestCreatePool_EmptyTitle(t *testing.T) {
	svc := NewService(untouchedStore{t}, joincode.NewRandom(), Config{})

	for _, title := range []string{"", "   "} {
		_, err := svc.CreatePool(context.Background(), title, "user-1")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("CreatePool(%q) error = %v, want ErrValidation", title, err)
		}
	}
}

func TestCreatePool_RetriesCodeCollision(t *testing.T) {
	svc, _ := newTestService(t, sequence("AAAAAA", "AAAAAA", "AAAAAA", "BBBBBB"))
	ctx := context.Background()

	first, err := svc.CreatePool(ctx, "First", "")
	if err != nil {
		t.Fatal(err)
	}
	if first.Code != "AAAAAA" {
		t.Fatalf("first code = %q, want AAAAAA", first.Code)
	}

	second, err := svc.CreatePool(ctx, "Second", "user-2")
	if err != nil {
		t.Fatalf("CreatePool() after collision error = %v", err)
	}
	if second.Code != "BBBBBB" {
		t.Errorf("second code = %q, want BBBBBB", second.Code)
	}

	count, _ := svc.CountPools(ctx)
	if count != 2 {
		t.Errorf("CountPools() = %d, want 2", count)
	}
}

func TestCreatePool_CollisionsExhausted(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.InsertTestPool(t, conn, "AAAAAA", "")

	var calls atomic.Int32
	codes := joincode.GeneratorFunc(func() (string, error) {
		calls.Add(1)
		return "AAAAAA", nil
	})
	svc := NewService(store.New(conn), codes, Config{MaxCodeAttempts: 3})

	_, err := svc.CreatePool(context.Background(), "Unlucky", "user-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("CreatePool() error = %v, want ErrUnavailable", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 generated codes, got %d", calls.Load())
	}

	// The failed attempts left nothing behind
	if n := testutil.CountParticipants(t, conn, "pool-AAAAAA"); n != 0 {
		t.Errorf("expected no participants, got %d", n)
	}
	count, _ := svc.CountPools(context.Background())
	if count != 1 {
		t.Errorf("CountPools() = %d, want 1", count)
	}
}

func TestCreatePool_GeneratorError(t *testing.T) {
	boom := errors.New("entropy exhausted")
	svc := NewService(untouchedStore{t}, joincode.GeneratorFunc(func() (string, error) {
		return "", boom
	}), Config{})

	_, err := svc.CreatePool(context.Background(), "Title", "")
	if !errors.Is(err, boom) {
		t.Errorf("CreatePool() error = %v, want %v", err, boom)
	}
}

func TestCreatePool_RetriesTransientConflict(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	flaky := &flakyStore{Store: store.New(conn)}
	flaky.failures.Store(2)
	svc := NewService(flaky, joincode.NewRandom(), Config{})

	if _, err := svc.CreatePool(context.Background(), "Title", ""); err != nil {
		t.Fatalf("CreatePool() error = %v", err)
	}
	if flaky.begins.Load() != 3 {
		t.Errorf("expected 3 transactions, got %d", flaky.begins.Load())
	}
}

// The scenario from the product brief: unauthenticated create, first join
// claims ownership, duplicate join rejected, unknown code rejected.
func TestPoolLifecycle(t *testing.T) {
	svc, conn := newTestService(t, sequence("AB12CD"))
	ctx := context.Background()

	pool, err := svc.CreatePool(ctx, "World Cup", "")
	if err != nil {
		t.Fatal(err)
	}
	if pool.Code != "AB12CD" || pool.Claimed() {
		t.Fatalf("unexpected pool: %+v", pool)
	}

	res, err := svc.JoinPool(ctx, "AB12CD", "U1")
	if err != nil {
		t.Fatalf("first join error = %v", err)
	}
	if res.PoolID != pool.ID || !res.ClaimedOwner {
		t.Errorf("unexpected join result: %+v", res)
	}
	if got := testutil.PoolOwner(t, conn, pool.ID); got != "U1" {
		t.Errorf("owner = %q, want U1", got)
	}
	if n := testutil.CountParticipants(t, conn, pool.ID); n != 1 {
		t.Errorf("participants = %d, want 1", n)
	}

	if _, err := svc.JoinPool(ctx, "AB12CD", "U1"); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("second join error = %v, want ErrAlreadyMember", err)
	}
	if n := testutil.CountParticipants(t, conn, pool.ID); n != 1 {
		t.Errorf("participants after duplicate = %d, want 1", n)
	}

	if _, err := svc.JoinPool(ctx, "ZZ99ZZ", "U2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown code error = %v, want ErrNotFound", err)
	}
	count, _ := svc.CountPools(ctx)
	if count != 1 {
		t.Errorf("CountPools() = %d, want 1", count)
	}
}

func TestJoinPool_OwnedPoolKeepsOwner(t *testing.T) {
	svc, conn := newTestService(t, nil)
	ctx := context.Background()

	pool, err := svc.CreatePool(ctx, "Owned", "creator")
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.JoinPool(ctx, pool.Code, "guest")
	if err != nil {
		t.Fatalf("JoinPool() error = %v", err)
	}
	if res.ClaimedOwner {
		t.Error("guest must not claim an owned pool")
	}
	if got := testutil.PoolOwner(t, conn, pool.ID); got != "creator" {
		t.Errorf("owner = %q, want creator", got)
	}
	if n := testutil.CountParticipants(t, conn, pool.ID); n != 2 {
		t.Errorf("participants = %d, want 2", n)
	}
}

func TestJoinPool_CreatorAlreadyMember(t *testing.T) {
	svc, conn := newTestService(t, nil)
	ctx := context.Background()

	pool, err := svc.CreatePool(ctx, "Mine", "creator")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.JoinPool(ctx, pool.Code, "creator"); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("JoinPool() error = %v, want ErrAlreadyMember", err)
	}
	if n := testutil.CountParticipants(t, conn, pool.ID); n != 1 {
		t.Errorf("participants = %d, want 1", n)
	}
}

func TestJoinPool_RejectedBeforeStoreAccess(t *testing.T) {
	svc := NewService(untouchedStore{t}, joincode.NewRandom(), Config{})
	ctx := context.Background()

	tests := []struct {
		name    string
		code    string
		userID  string
		wantErr error
	}{
		{"no identity", "AB12CD", "", ErrUnauthenticated},
		{"lowercase code", "ab12cd", "U1", ErrValidation},
		{"short code", "AB12", "U1", ErrValidation},
		{"empty code", "", "U1", ErrValidation},
		{"no identity and bad code", "bad", "", ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.JoinPool(ctx, tt.code, tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("JoinPool() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestJoinPool_UnknownCodeDoesNotMutate(t *testing.T) {
	svc, conn := newTestService(t, nil)
	ctx := context.Background()

	pool, err := svc.CreatePool(ctx, "Quiet", "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.JoinPool(ctx, "ZZZZZ9", "U1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("JoinPool() error = %v, want ErrNotFound", err)
	}

	var participants int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM participant`).Scan(&participants); err != nil {
		t.Fatal(err)
	}
	if participants != 0 {
		t.Errorf("expected no participants, got %d", participants)
	}
	if got := testutil.PoolOwner(t, conn, pool.ID); got != "" {
		t.Errorf("owner = %q, want none", got)
	}
}

func TestJoinPool_RetriesTransientConflict(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.InsertTestPool(t, conn, "AB12CD", "")
	flaky := &flakyStore{Store: store.New(conn)}
	flaky.failures.Store(2)
	svc := NewService(flaky, joincode.NewRandom(), Config{MaxJoinAttempts: 3})

	res, err := svc.JoinPool(context.Background(), "AB12CD", "U1")
	if err != nil {
		t.Fatalf("JoinPool() error = %v", err)
	}
	if !res.ClaimedOwner {
		t.Error("expected first joiner to claim the pool")
	}
	if flaky.begins.Load() != 3 {
		t.Errorf("expected 3 transactions, got %d", flaky.begins.Load())
	}
}

func TestJoinPool_ConflictsExhausted(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	poolID := testutil.InsertTestPool(t, conn, "AB12CD", "")
	flaky := &flakyStore{Store: store.New(conn)}
	flaky.failures.Store(10)
	svc := NewService(flaky, joincode.NewRandom(), Config{MaxJoinAttempts: 2})

	_, err := svc.JoinPool(context.Background(), "AB12CD", "U1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("JoinPool() error = %v, want ErrUnavailable", err)
	}
	if flaky.begins.Load() != 2 {
		t.Errorf("expected 2 transactions, got %d", flaky.begins.Load())
	}
	if n := testutil.CountParticipants(t, conn, poolID); n != 0 {
		t.Errorf("participants = %d, want 0", n)
	}
}

func TestJoinPool_Timeout(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.InsertTestPool(t, conn, "AB12CD", "")
	svc := NewService(store.New(conn), joincode.NewRandom(), Config{})

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := svc.JoinPool(ctx, "AB12CD", "U1")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("JoinPool() error = %v, want ErrUnavailable", err)
	}
}

func TestCountPools(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreatePool(ctx, fmt.Sprintf("Pool %d", i), ""); err != nil {
			t.Fatal(err)
		}
	}

	// Reading twice changes nothing
	for i := 0; i < 2; i++ {
		count, err := svc.CountPools(ctx)
		if err != nil {
			t.Fatalf("CountPools() error = %v", err)
		}
		if count != 3 {
			t.Errorf("CountPools() = %d, want 3", count)
		}
	}
}

// scriptedStore hands out a single scriptedTx so tests can force outcomes
// that only occur when transactions interleave
type scriptedStore struct {
	tx *scriptedTx
}

func (s *scriptedStore) Begin(context.Context) (store.Tx, error) {
	return s.tx, nil
}

func (s *scriptedStore) CountPools(context.Context) (int, error) {
	return 0, nil
}

type scriptedTx struct {
	pool      models.Pool
	member    bool
	claimed   bool
	insertErr error

	claimCalls int
	inserted   []string
	committed  bool
	rolledBack bool
}

func (tx *scriptedTx) InsertPool(ctx context.Context, title, code string, ownerID *string) (models.Pool, error) {
	return models.Pool{}, errors.New("not scripted")
}

func (tx *scriptedTx) InsertParticipant(ctx context.Context, poolID, userID string) error {
	if tx.insertErr != nil {
		return tx.insertErr
	}
	tx.inserted = append(tx.inserted, userID)
	return nil
}

func (tx *scriptedTx) FindPoolByCode(ctx context.Context, code, userID string) (models.Pool, bool, error) {
	return tx.pool, tx.member, nil
}

func (tx *scriptedTx) ClaimOwnerIfUnset(ctx context.Context, poolID, userID string) (bool, error) {
	tx.claimCalls++
	return tx.claimed, nil
}

func (tx *scriptedTx) Commit() error {
	tx.committed = true
	return nil
}

func (tx *scriptedTx) Rollback() error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

func TestJoinPool_LosesOwnerRace(t *testing.T) {
	// The pool looked unclaimed on read, but another join claimed it first
	tx := &scriptedTx{
		pool:    models.Pool{ID: "pool-1", Title: "Office", Code: "ZZ99ZZ"},
		claimed: false,
	}
	svc := NewService(&scriptedStore{tx: tx}, joincode.NewRandom(), Config{})

	res, err := svc.JoinPool(context.Background(), "ZZ99ZZ", "U3")
	if err != nil {
		t.Fatalf("JoinPool() error = %v, want success as a regular participant", err)
	}
	if res.ClaimedOwner {
		t.Error("expected ClaimedOwner = false for the race loser")
	}
	if res.PoolID != "pool-1" {
		t.Errorf("PoolID = %q, want pool-1", res.PoolID)
	}
	if tx.claimCalls != 1 {
		t.Errorf("expected one claim attempt, got %d", tx.claimCalls)
	}
	if len(tx.inserted) != 1 || tx.inserted[0] != "U3" {
		t.Errorf("expected U3 to be inserted, got %v", tx.inserted)
	}
	if !tx.committed {
		t.Error("expected the join to commit")
	}
}

func TestJoinPool_SkipsClaimOnOwnedPool(t *testing.T) {
	owner := "U1"
	tx := &scriptedTx{pool: models.Pool{ID: "pool-1", Code: "AB12CD", OwnerID: &owner}}
	svc := NewService(&scriptedStore{tx: tx}, joincode.NewRandom(), Config{})

	res, err := svc.JoinPool(context.Background(), "AB12CD", "U2")
	if err != nil {
		t.Fatalf("JoinPool() error = %v", err)
	}
	if res.ClaimedOwner || tx.claimCalls != 0 {
		t.Errorf("expected no claim on an owned pool, claimed=%v calls=%d", res.ClaimedOwner, tx.claimCalls)
	}
}

func TestJoinPool_DuplicateCaughtByUniqueKey(t *testing.T) {
	// The membership check passed, but a concurrent join by the same user
	// committed first and the insert hits the primary key
	tx := &scriptedTx{
		pool:      models.Pool{ID: "pool-1", Title: "Office", Code: "ZZ99ZZ"},
		claimed:   true,
		insertErr: store.ErrAlreadyParticipant,
	}
	svc := NewService(&scriptedStore{tx: tx}, joincode.NewRandom(), Config{})

	_, err := svc.JoinPool(context.Background(), "ZZ99ZZ", "U2")
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("JoinPool() error = %v, want ErrAlreadyMember", err)
	}
	if tx.committed {
		t.Error("expected the transaction not to commit")
	}
	if !tx.rolledBack {
		t.Error("expected the transaction to roll back, undoing the claim")
	}
}

func TestCancelledContextIsUnavailable(t *testing.T) {
	svc, _ := newTestService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.CreatePool(ctx, "Cancelled", "U1"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("CreatePool() error = %v, want ErrUnavailable", err)
	}
	if _, err := svc.JoinPool(ctx, "AB12CD", "U1"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("JoinPool() error = %v, want ErrUnavailable", err)
	}
	if _, err := svc.CountPools(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("CountPools() error = %v, want ErrUnavailable", err)
	}
}
