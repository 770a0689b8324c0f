package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// KV exposes the kv_store table as a key-value store. Methods without a
// context use a background context bounded by timeout.
type KV struct {
	db      *DB
	timeout time.Duration
}

// NewKV creates a key-value view over the database.
func NewKV(database *DB, timeout time.Duration) *KV {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KV{db: database, timeout: timeout}
}

func (k *KV) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), k.timeout)
}

// Get returns the value for key, or nil when it is missing or expired.
func (k *KV) Get(key string) ([]byte, error) {
	ctx, cancel := k.ctx()
	defer cancel()
	return k.GetWithContext(ctx, key)
}

// GetWithContext returns the value for key, or nil when it is missing or expired.
func (k *KV) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	var value []byte
	err := k.db.Pool.QueryRow(ctx, `
		SELECT value FROM kv_store
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

// Set upserts key. A zero exp never expires.
func (k *KV) Set(key string, val []byte, exp time.Duration) error {
	ctx, cancel := k.ctx()
	defer cancel()
	return k.SetWithContext(ctx, key, val, exp)
}

// SetWithContext upserts key. A zero exp never expires.
func (k *KV) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	var expiresAt *time.Time
	if exp > 0 {
		t := time.Now().Add(exp)
		expiresAt = &t
	}

	_, err := k.db.Pool.Exec(ctx, `
		INSERT INTO kv_store (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()
	`, key, val, expiresAt)
	return err
}

// Delete removes key.
func (k *KV) Delete(key string) error {
	ctx, cancel := k.ctx()
	defer cancel()
	_, err := k.db.Pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	return err
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (k *KV) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := k.db.Pool.Exec(ctx, `DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Close closes the underlying pool.
func (k *KV) Close() error {
	k.db.Close()
	return nil
}
