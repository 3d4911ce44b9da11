package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SetValue stores value under key. A positive ttl makes the entry expire;
// an existing entry is overwritten together with its deadline.
func (db *DB) SetValue(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, db.expiresAt(ttl))
	return err
}

// GetValue returns nil without error when the key is absent or expired.
func (db *DB) GetValue(ctx context.Context, key string) ([]byte, error) {
	type kvRow struct {
		Value     []byte `db:"value"`
		ExpiresAt int64  `db:"expires_at"`
	}

	var row kvRow
	err := db.GetContext(ctx, &row, "SELECT value, expires_at FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if row.ExpiresAt > 0 && db.now().UnixMilli() >= row.ExpiresAt {
		_, _ = db.ExecContext(ctx, "DELETE FROM kv WHERE key = ? AND expires_at = ?", key, row.ExpiresAt)
		return nil, nil
	}

	return row.Value, nil
}

func (db *DB) DeleteValue(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// AppendToList appends value to the list under key and keeps only the last
// keep items. keep <= 0 disables trimming.
func (db *DB) AppendToList(ctx context.Context, key, value string, keep int) error {
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO list_items (key, value) VALUES (?, ?)", key, value); err != nil {
			return err
		}
		if keep <= 0 {
			return nil
		}
		_, err := tx.ExecContext(ctx, `
			DELETE FROM list_items WHERE key = ? AND id NOT IN (
				SELECT id FROM list_items WHERE key = ? ORDER BY id DESC LIMIT ?
			)
		`, key, key, keep)
		return err
	})
}

// ReadList returns the list under key in insertion order.
func (db *DB) ReadList(ctx context.Context, key string) ([]string, error) {
	var values []string
	err := db.SelectContext(ctx, &values, "SELECT value FROM list_items WHERE key = ? ORDER BY id ASC", key)
	return values, err
}

func (db *DB) DeleteList(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM list_items WHERE key = ?", key)
	return err
}

// PurgeExpired deletes expired session and cache rows and reports how many
// rows were removed.
func (db *DB) PurgeExpired(ctx context.Context) (int64, error) {
	now := db.now().UnixMilli()

	var total int64
	for _, table := range []string{"kv", "cache"} {
		res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE expires_at > 0 AND expires_at <= ?", now)
		if err != nil {
			return total, err
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
