package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/overlay"
)

func open(t *testing.T) (*Backend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.db")
	b, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, path
}

func TestBackend_GetMissing(t *testing.T) {
	b, _ := open(t)
	_, err := b.Get(context.Background(), "kitchen")
	assert.True(t, errors.IsNotFound(err))
}

func TestBackend_PutOverwrites(t *testing.T) {
	b, _ := open(t)
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "kitchen", []byte("one")))
	require.NoError(t, b.Put(ctx, "kitchen", []byte("two")))
	require.NoError(t, b.Put(ctx, "garage", []byte("three")))

	got, err := b.Get(ctx, "kitchen")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"garage", "kitchen"}, keys)
}

func TestBackend_Reopen(t *testing.T) {
	b, path := open(t)
	ctx := context.Background()

	store := overlay.NewStore(b, "pantry")
	require.True(t, store.Adopt(ctx, []catalogs.ID{"1", "2", "3"}))
	require.NoError(t, store.SetOrder(ctx, []catalogs.ID{"3", "1", "2"}))
	require.NoError(t, b.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	area := overlay.NewStore(reopened, "pantry").Load(ctx)
	assert.Equal(t, []catalogs.ID{"3", "1", "2"}, area.Members)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "overlay.db"))
	assert.Error(t, err)
}
