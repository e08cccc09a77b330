package overlay

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

func strPtr(s string) *string { return &s }

func newTestStore(t *testing.T, opts ...StoreOption) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	store := NewStore(backend, "test", opts...)
	store.Load(context.Background())
	return store, backend
}

func TestStore_LoadMissingIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	area := store.Area()
	assert.Equal(t, "test", area.ID)
	assert.Empty(t, area.Members)
	assert.Empty(t, area.Overrides)
}

func TestStore_LoadCorruptFailsOpen(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"malformed", `{"version":1,"members":[`},
		{"no version", `{"members":["1"]}`},
		{"future version", `{"version":9,"members":["1"]}`},
		{"duplicate members", `{"version":1,"members":["1","1"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := NewMemoryBackend()
			require.NoError(t, backend.Put(ctx, "test", []byte(tt.blob)))

			logger := logging.NewTestLogger(t)
			store := NewStore(backend, "test", WithLogger(logger.Logger))
			area := store.Load(ctx)

			assert.Empty(t, area.Members)
			logger.AssertContains(t, "Discarding unreadable overlay")
			logger.AssertContains(t, `"corrupt":true`)

			// The corrupt blob is overwritten by the next save.
			require.True(t, store.Adopt(ctx, []catalogs.ID{"1", "2"}))
			data, err := backend.Get(ctx, "test")
			require.NoError(t, err)
			assert.Contains(t, string(data), `"version":1`)
		})
	}
}

func TestStore_StockRoundTripsBitForBit(t *testing.T) {
	ctx := context.Background()
	for _, codec := range []Codec{JSONCodec{}, YAMLCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			backend := NewMemoryBackend()
			store := NewStore(backend, "test", WithCodec(codec))
			store.Load(ctx)

			stock, err := catalogs.ParseStock("12,5")
			require.NoError(t, err)
			third := 1.0 / 3.0

			require.NoError(t, store.SetOverride(ctx, "1", Patch{Stock: &stock}))
			require.NoError(t, store.SetOverride(ctx, "2", Patch{Stock: &third}))

			reloaded := NewStore(backend, "test", WithCodec(codec)).Load(ctx)
			got1, ok := reloaded.Override("1")
			require.True(t, ok)
			got2, ok := reloaded.Override("2")
			require.True(t, ok)

			assert.Equal(t, math.Float64bits(12.5), math.Float64bits(*got1.Stock))
			assert.Equal(t, math.Float64bits(third), math.Float64bits(*got2.Stock))
		})
	}
}

func TestStore_SetAndClearOverride(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.SetOverride(ctx, "1", Patch{Name: strPtr("  Custom  ")}))
	require.NoError(t, store.SetOverride(ctx, "1", Patch{Stock: catalogs.Float(4)}))

	entry, ok := store.Area().Override("1")
	require.True(t, ok)
	assert.Equal(t, "Custom", *entry.Name)
	assert.Equal(t, float64(4), *entry.Stock)

	require.NoError(t, store.ClearOverride(ctx, "1", FieldName))
	entry, ok = store.Area().Override("1")
	require.True(t, ok)
	assert.Nil(t, entry.Name)

	require.NoError(t, store.ClearOverride(ctx, "1", FieldStock))
	_, ok = store.Area().Override("1")
	assert.False(t, ok, "empty entries are deleted")

	assert.NoError(t, store.ClearOverride(ctx, "missing", FieldAll))
}

func TestStore_SetOverrideRejectsBeforeTouchingState(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.SetOverride(ctx, "1", Patch{Name: strPtr("Kept")}))
	before := store.Area()

	tests := []struct {
		name  string
		id    catalogs.ID
		patch Patch
		check func(error) bool
	}{
		{"empty id", "", Patch{Name: strPtr("x")}, errors.IsValidationError},
		{"empty patch", "1", Patch{}, errors.IsValidationError},
		{"blank name", "1", Patch{Name: strPtr("   ")}, errors.IsInvalidEditValue},
		{"long name", "1", Patch{Name: strPtr(strings.Repeat("x", 300))}, errors.IsInvalidEditValue},
		{"nan stock", "1", Patch{Stock: catalogs.Float(math.NaN())}, errors.IsInvalidEditValue},
		{"inf stock", "1", Patch{Stock: catalogs.Float(math.Inf(1))}, errors.IsInvalidEditValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SetOverride(ctx, tt.id, tt.patch)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
			assert.Equal(t, before.Overrides, store.Area().Overrides)
		})
	}
}

func TestStore_SetOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.True(t, store.Adopt(ctx, []catalogs.ID{"1", "2", "3"}))

	require.NoError(t, store.SetOrder(ctx, []catalogs.ID{"3", "1", "2"}))
	assert.Equal(t, []catalogs.ID{"3", "1", "2"}, store.Area().Members)

	before := store.Area().Members
	mismatches := map[string][]catalogs.ID{
		"dropped member": {"3", "1"},
		"added member":   {"3", "1", "2", "4"},
		"swapped member": {"3", "1", "4"},
		"duplicate":      {"3", "1", "1"},
		"empty":          {},
	}
	for name, order := range mismatches {
		t.Run(name, func(t *testing.T) {
			err := store.SetOrder(ctx, order)
			require.Error(t, err)
			assert.True(t, errors.IsOrderMembershipMismatch(err))
			assert.Equal(t, before, store.Area().Members)
		})
	}
}

func TestStore_AdoptIsOneTime(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	assert.False(t, store.Adopt(ctx, nil))
	assert.True(t, store.Adopt(ctx, []catalogs.ID{"1", "2", "1", ""}))
	assert.Equal(t, []catalogs.ID{"1", "2"}, store.Area().Members)

	assert.False(t, store.Adopt(ctx, []catalogs.ID{"9"}))
	assert.Equal(t, []catalogs.ID{"1", "2"}, store.Area().Members)
}

func TestStore_RemoveAndInclude(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.True(t, store.Adopt(ctx, []catalogs.ID{"1", "2"}))
	require.NoError(t, store.SetOverride(ctx, "2", Patch{Name: strPtr("Two")}))

	require.NoError(t, store.RemoveMember(ctx, "2"))
	area := store.Area()
	assert.Equal(t, []catalogs.ID{"1"}, area.Members)
	_, ok := area.Override("2")
	assert.False(t, ok)

	assert.True(t, errors.IsNotFound(store.RemoveMember(ctx, "2")))

	require.NoError(t, store.AddMember(ctx, "2"))
	assert.Equal(t, []catalogs.ID{"1", "2"}, store.Area().Members)
	assert.ErrorIs(t, store.AddMember(ctx, "2"), errors.ErrAlreadyExists)
}

func TestStore_RemoveDeletesOverrideOfNonMember(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.True(t, store.Adopt(ctx, []catalogs.ID{"1", "2"}))
	require.NoError(t, store.RemoveMember(ctx, "2"))
	require.NoError(t, store.SetOverride(ctx, "2", Patch{Name: strPtr("Stale")}))

	require.NoError(t, store.RemoveMember(ctx, "2"))
	area := store.Area()
	assert.Equal(t, []catalogs.ID{"1"}, area.Members)
	_, ok := area.Override("2")
	assert.False(t, ok)

	assert.True(t, errors.IsNotFound(store.RemoveMember(ctx, "2")))
}

func TestStore_AddLocal(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)
	require.True(t, store.Adopt(ctx, []catalogs.ID{"1"}))

	item := catalogs.Item{ID: "local-1", Name: "Handmade", Stock: catalogs.Float(2)}
	require.NoError(t, store.AddLocal(ctx, item))
	assert.ErrorIs(t, store.AddLocal(ctx, item), errors.ErrAlreadyExists)
	assert.ErrorIs(t, store.AddLocal(ctx, catalogs.Item{ID: "1"}), errors.ErrAlreadyExists)

	reloaded := NewStore(backend, "test").Load(ctx)
	assert.Equal(t, []catalogs.ID{"1", "local-1"}, reloaded.Members)
	got, ok := reloaded.LocalItem("local-1")
	require.True(t, ok)
	assert.Equal(t, "Handmade", got.Name)
	assert.Equal(t, float64(2), got.StockValue())
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.True(t, store.Adopt(ctx, []catalogs.ID{"1", "2", "3"}))
	require.NoError(t, store.SetOverride(ctx, "2", Patch{Name: strPtr("Gone")}))
	require.NoError(t, store.SetOverride(ctx, "9", Patch{Name: strPtr("Orphan")}))

	pruned := store.Prune(ctx, []catalogs.ID{"1", "3"})
	assert.ElementsMatch(t, []catalogs.ID{"2", "9"}, pruned)

	area := store.Area()
	assert.Equal(t, []catalogs.ID{"1", "3"}, area.Members)
	assert.Empty(t, area.Overrides)

	assert.Empty(t, store.Prune(ctx, []catalogs.ID{"1", "3"}))
}

type failingBackend struct{ *MemoryBackend }

func (failingBackend) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestStore_SaveFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	store := NewStore(failingBackend{NewMemoryBackend()}, "test", WithLogger(logger.Logger))

	require.NoError(t, store.AddMember(ctx, "1"))
	assert.Equal(t, []catalogs.ID{"1"}, store.Area().Members)
	logger.AssertContains(t, "Failed to save overlay")
	logger.AssertContains(t, "disk full")
}

func TestStore_SaveStampsTime(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	backend := NewMemoryBackend()
	store := NewStore(backend, "test", WithClock(func() time.Time { return fixed }))

	area := NewArea("ignored")
	area.Members = []catalogs.ID{"7"}
	store.Save(ctx, area)

	reloaded := NewStore(backend, "test").Load(ctx)
	assert.Equal(t, "test", reloaded.ID)
	assert.Equal(t, []catalogs.ID{"7"}, reloaded.Members)
	assert.True(t, fixed.Equal(reloaded.SavedAt))
}

func TestCodecFor(t *testing.T) {
	assert.Equal(t, "yaml", CodecFor("overlay.YAML").Name())
	assert.Equal(t, "yaml", CodecFor("a/b.yml").Name())
	assert.Equal(t, "json", CodecFor("overlay.json").Name())
	assert.Equal(t, "json", CodecFor("overlay").Name())
}
