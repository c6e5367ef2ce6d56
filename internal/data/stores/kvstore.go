package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/extguard/internal/data/db"
)

// KVStore keeps JSON values in the kv_store table. Entries may carry an
// expiry; expired entries read as missing and are removed by SweepExpired.
type KVStore struct {
	db  *db.DB
	now func() time.Time
}

// NewKVStore creates a KV store over database.
func NewKVStore(database *db.DB) *KVStore {
	return &KVStore{db: database, now: time.Now}
}

// Get decodes the value under key into dest. A missing or expired key
// returns an error wrapping sql.ErrNoRows.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	row, err := s.db.Queries().KVGet(ctx, key)
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if row.ExpiresAt.Valid && row.ExpiresAt.Int64 < s.now().UnixNano() {
		_ = s.db.Queries().KVDelete(ctx, key)
		return fmt.Errorf("kv get %q: expired: %w", key, sql.ErrNoRows)
	}

	if err := json.Unmarshal(row.Value, dest); err != nil {
		return fmt.Errorf("kv get %q: decode: %w", key, err)
	}
	return nil
}

// Put stores value under key. A positive ttl makes the entry expire; zero or
// negative keeps it until deleted.
func (s *KVStore) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv put %q: encode: %w", key, err)
	}

	now := s.now()
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(ttl).UnixNano(), Valid: true}
	}

	err = s.db.Queries().KVSet(ctx, db.KVSetParams{
		Key:       key,
		Value:     data,
		ExpiresAt: expiresAt,
		CreatedAt: now.UnixNano(),
		UpdatedAt: now.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Queries().KVDelete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// SweepExpired deletes every expired entry and reports how many went.
func (s *KVStore) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.db.Queries().KVSweepExpired(ctx, sql.NullInt64{Int64: s.now().UnixNano(), Valid: true})
	if err != nil {
		return 0, fmt.Errorf("kv sweep: %w", err)
	}
	return n, nil
}
