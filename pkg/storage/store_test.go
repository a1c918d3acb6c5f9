package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/errors"
)

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		data, found, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, data)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "allMindMaps", []byte(`{"a":{}}`)))
		data, found, err := s.Get(ctx, "allMindMaps")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"a":{}}`, string(data))
	})

	t.Run("overwrite replaces value", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k", []byte("a much longer first value")))
		require.NoError(t, s.Set(ctx, "k", []byte("short")))
		data, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "short", string(data))
	})

	t.Run("empty value", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "empty", []byte{}))
		data, found, err := s.Get(ctx, "empty")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, data)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "gone", []byte("x")))
		require.NoError(t, s.Delete(ctx, "gone"))
		_, found, err := s.Get(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, found)

		assert.NoError(t, s.Delete(ctx, "never-existed"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "one", []byte("1")))
		require.NoError(t, s.Set(ctx, "two", []byte("2")))
		one, _, _ := s.Get(ctx, "one")
		two, _, _ := s.Get(ctx, "two")
		assert.Equal(t, "1", string(one))
		assert.Equal(t, "2", string(two))
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'X'

	data, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(data))
	data[1] = 'Y'

	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStoreClosed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.True(t, errors.Is(err, errors.ErrCodeStorage))
	assert.ErrorIs(t, s.Set(ctx, "k", nil), ErrClosed)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "nested"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "allMindMaps", []byte("{}")))
	require.NoError(t, s.Set(ctx, "a/b", []byte("{}")))

	_, err = os.Stat(filepath.Join(dir, "nested", "allMindMaps.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "nested", "a%2Fb.json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files should be left behind")
}

func TestFileStoreReadError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	// A directory where the value file should be cannot be read.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "k.json"), 0o755))
	_, _, err = s.Get(context.Background(), "k")
	assert.True(t, errors.Is(err, errors.ErrCodeStorage))
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "db", "mindmap.db"))
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mindmap.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "allMindMaps", []byte(`{"x":{}}`)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	data, found, err := reopened.Get(ctx, "allMindMaps")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"x":{}}`, string(data))
}
