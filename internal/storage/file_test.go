package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fjod/moment_cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "moment_cart:v1", []byte(`{"version":"1.0.0"}`)))

	got, err := store.Get(ctx, "moment_cart:v1")
	require.NoError(t, err)
	assert.Equal(t, `{"version":"1.0.0"}`, string(got))
}

func TestFileStore_GetMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "moment_cart:v1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStore_KeySanitized(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "moment_cart:v1", []byte("x")))

	_, statErr := os.Stat(filepath.Join(dir, "moment_cart_v1.json"))
	assert.NoError(t, statErr)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStore_AdapterRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a := NewAdapter(store)
	require.NoError(t, a.Initialize(ctx))
	require.NoError(t, a.SaveCartItems(ctx, []domain.CartItem{sampleItem("e1")}))

	// A second adapter over the same directory sees the record.
	reopened := NewAdapter(store)
	items := reopened.LoadCartItems(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "e1", items[0].Event.ID)
}
