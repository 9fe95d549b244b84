package models

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLiteDocuments(t *testing.T, table string) *GormDocuments {
	t.Helper()
	db, err := OpenDatabase("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	docs, err := NewGormDocuments(db, table)
	require.NoError(t, err)
	return docs
}

func newRedisDocuments(t *testing.T, prefix string) (*RedisDocuments, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDocuments(client, prefix), mr
}

func TestDocumentStores(t *testing.T) {
	backends := []struct {
		name string
		new  func(t *testing.T) DocumentStore
	}{
		{
			name: "memory",
			new:  func(t *testing.T) DocumentStore { return NewMemoryDocuments() },
		},
		{
			name: "sqlite",
			new:  func(t *testing.T) DocumentStore { return newSQLiteDocuments(t, "documents") },
		},
		{
			name: "redis",
			new: func(t *testing.T) DocumentStore {
				docs, _ := newRedisDocuments(t, "catalog:")
				return docs
			},
		},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			docs := b.new(t)

			_, err := docs.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrDocumentNotFound)

			require.NoError(t, docs.Put(ctx, productsKey, []byte(`[{"id":"p1"}]`)))
			got, err := docs.Get(ctx, productsKey)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"p1"}]`, string(got))

			require.NoError(t, docs.Put(ctx, productsKey, []byte(`[]`)))
			got, err = docs.Get(ctx, productsKey)
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got), "put replaces the previous value")
		})
	}
}

func TestGormDocumentsSeparateTables(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDatabase("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)

	docs, err := NewGormDocuments(db, "documents")
	require.NoError(t, err)
	secrets, err := NewGormDocuments(db, "secrets")
	require.NoError(t, err)

	require.NoError(t, secrets.Put(ctx, pinKey, []byte("1234")))

	_, err = docs.Get(ctx, pinKey)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	pin, err := secrets.Get(ctx, pinKey)
	require.NoError(t, err)
	assert.Equal(t, "1234", string(pin))
}

func TestRedisDocumentsPrefix(t *testing.T) {
	ctx := context.Background()
	docs, mr := newRedisDocuments(t, "catalog:")

	require.NoError(t, docs.Put(ctx, settingsKey, []byte(`{"pin":"0000"}`)))

	raw, err := mr.Get("catalog:" + settingsKey)
	require.NoError(t, err)
	assert.Equal(t, `{"pin":"0000"}`, raw)
	assert.Zero(t, mr.TTL("catalog:"+settingsKey), "documents never expire")
}

func TestOpenDatabaseUnsupportedDriver(t *testing.T) {
	_, err := OpenDatabase("oracle", "")
	assert.ErrorContains(t, err, `unsupported storage driver "oracle"`)
}

func TestStoreOverSQLite(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newSQLiteDocuments(t, "documents"), newSQLiteDocuments(t, "secrets"), zap.NewNop())

	require.NoError(t, store.Initialize(ctx))
	saved, err := store.SaveProduct(ctx, newTestProduct("p1", "44"))
	require.NoError(t, err)

	got, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, saved.Name, got.Name)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, DefaultPIN, store.GetPIN(ctx))
}
