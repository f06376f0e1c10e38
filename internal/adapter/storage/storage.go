// Package storage provides the durable key-value backends the favorites set
// is persisted to.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/proexplore/internal/core/port"
	"github.com/niksmo/proexplore/pkg/retry"
)

var (
	_ port.KVStorage = (*SQLKVStorage)(nil)
	_ port.KVStorage = (*FileKVStorage)(nil)
	_ port.KVStorage = (*MemoryKVStorage)(nil)
	_ port.KVStorage = (*RedisKVStorage)(nil)
)

// Remote backends may still be starting when the application comes up.
var pingRetry = retry.Config{
	MaxAttempts: 5,
	Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
}

// A SQLKVStorage keeps values in the kv_store table.
//
// The table is created by cmd/migrator.
type SQLKVStorage struct {
	sqldb sqldb
}

func NewSQLKVStorage(sqldb sqldb) SQLKVStorage {
	return SQLKVStorage{sqldb}
}

func (s SQLKVStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "SQLKVStorage.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT value FROM kv_store WHERE key = $1;`

	var value []byte
	err := s.sqldb.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

func (s SQLKVStorage) Set(ctx context.Context, key string, value []byte) error {
	const op = "SQLKVStorage.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`

	_, err := s.sqldb.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}
