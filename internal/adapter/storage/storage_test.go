package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVStorage(t *testing.T) {
	s := NewMemoryKVStorage()

	v, err := s.Get(t.Context(), "favorites")
	require.NoError(t, err)
	assert.Nil(t, v)

	value := []byte(`[1,2]`)
	require.NoError(t, s.Set(t.Context(), "favorites", value))
	value[0] = 'x'

	v, err = s.Get(t.Context(), "favorites")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2]`), v)
}

func TestFileKVStorage(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		s, err := NewFileKVStorage(filepath.Join(t.TempDir(), "data", "kv.json"))
		require.NoError(t, err)

		v, err := s.Get(t.Context(), "favorites")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("SetGet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kv.json")
		s, err := NewFileKVStorage(path)
		require.NoError(t, err)

		require.NoError(t, s.Set(t.Context(), "favorites", []byte(`[3]`)))
		require.NoError(t, s.Set(t.Context(), "other", []byte(`x`)))
		require.NoError(t, s.Set(t.Context(), "favorites", []byte(`[3,4]`)))

		reopened, err := NewFileKVStorage(path)
		require.NoError(t, err)

		v, err := reopened.Get(t.Context(), "favorites")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[3,4]`), v)

		v, err = reopened.Get(t.Context(), "other")
		require.NoError(t, err)
		assert.Equal(t, []byte(`x`), v)

		matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kv.json")
		require.NoError(t, os.WriteFile(path, []byte(`{oops`), 0o600))

		s, err := NewFileKVStorage(path)
		require.NoError(t, err)

		_, err = s.Get(t.Context(), "favorites")
		assert.Error(t, err)

		require.NoError(t, s.Set(t.Context(), "favorites", []byte(`[1]`)))
		v, err := s.Get(t.Context(), "favorites")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[1]`), v)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		_, err := NewFileKVStorage("")
		assert.Error(t, err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s, err := NewFileKVStorage(filepath.Join(t.TempDir(), "kv.json"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		assert.ErrorIs(t, s.Set(ctx, "favorites", []byte(`[1]`)), context.Canceled)
		_, err = s.Get(ctx, "favorites")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type MockSQLDB struct {
	mock.Mock
}

func (db *MockSQLDB) ExecContext(
	ctx context.Context, query string, args ...any,
) (sql.Result, error) {
	callArgs := db.Called(append([]any{ctx, query}, args...)...)
	res, _ := callArgs.Get(0).(sql.Result)
	return res, callArgs.Error(1)
}

func (db *MockSQLDB) PingContext(ctx context.Context) error {
	return db.Called(ctx).Error(0)
}

func (db *MockSQLDB) QueryRowContext(
	ctx context.Context, query string, args ...any,
) *sql.Row {
	panic("not used")
}

func TestSQLKVStorageSet(t *testing.T) {
	t.Run("Ok", func(t *testing.T) {
		db := new(MockSQLDB)
		db.On("ExecContext",
			mock.Anything, mock.AnythingOfType("string"),
			"favorites", []byte(`[1]`),
		).Return(nil, nil).Once()

		s := NewSQLKVStorage(db)
		require.NoError(t, s.Set(t.Context(), "favorites", []byte(`[1]`)))
		db.AssertExpectations(t)
	})

	t.Run("ExecFailed", func(t *testing.T) {
		db := new(MockSQLDB)
		db.On("ExecContext",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		).Return(nil, errors.New("connection reset")).Once()

		s := NewSQLKVStorage(db)
		err := s.Set(t.Context(), "favorites", []byte(`[1]`))
		assert.ErrorContains(t, err, "SQLKVStorage.Set")
	})

	t.Run("CanceledContext", func(t *testing.T) {
		db := new(MockSQLDB)
		s := NewSQLKVStorage(db)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		assert.ErrorIs(t, s.Set(ctx, "favorites", nil), context.Canceled)
		_, err := s.Get(ctx, "favorites")
		assert.ErrorIs(t, err, context.Canceled)
		db.AssertNotCalled(t, "ExecContext")
	})
}
