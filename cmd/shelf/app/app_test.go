package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf"
	"github.com/agentstation/shelf/internal/sources/local"
	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/differ"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
	"github.com/agentstation/shelf/pkg/ordering"
	"github.com/agentstation/shelf/pkg/overlay"
	"github.com/agentstation/shelf/pkg/reconcile"
)

const catalogJSON = `[
  {"id": 1, "name": "Flour", "sku": "FL-1", "stock": 4},
  {"id": 2, "official_name": "Engate 50", "stock": "3"},
  {"id": 3, "short_name": "Salt"}
]`

type testApp struct {
	*App
	out     *bytes.Buffer
	catalog string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o644))

	client, err := shelf.New(
		shelf.WithSource(local.New(path)),
		shelf.WithBackend(overlay.NewMemoryBackend()),
		shelf.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app, err := New("1.2.3", "abc123", "2026-01-02", "test",
		WithConfig(&Config{Format: "json", Area: "default", LogOutput: "discard"}),
		WithLogger(logging.NewNopLogger()),
		WithOutput(out),
		WithClient(client),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })

	return &testApp{App: app, out: out, catalog: path}
}

func (ta *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	ta.out.Reset()
	return ta.Execute(context.Background(), args)
}

func (ta *testApp) list(t *testing.T, args ...string) []reconcile.VisibleItem {
	t.Helper()
	require.NoError(t, ta.run(t, append([]string{"list"}, args...)...))
	var items []reconcile.VisibleItem
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &items))
	return items
}

func (ta *testApp) client(t *testing.T) shelf.Client {
	t.Helper()
	client, err := ta.Client(context.Background())
	require.NoError(t, err)
	return client
}

func names(items []reconcile.VisibleItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestList(t *testing.T) {
	ta := newTestApp(t)

	items := ta.list(t)
	assert.Equal(t, []string{"Flour", "Engate 50", "Salt"}, names(items))
	assert.Equal(t, 3.0, items[1].Stock)

	assert.Equal(t, []string{"Engate 50"}, names(ta.list(t, "ENGATE")))
	assert.Equal(t, []string{"Flour"}, names(ta.list(t, "fl-1")))
	assert.Len(t, ta.list(t, "--limit", "2"), 2)
}

func TestList_TableFormat(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "list", "-o", "wide"))
	assert.Contains(t, ta.out.String(), "Engate 50")
	assert.Contains(t, ta.out.String(), "FL-1")
}

func TestInvalidFormat(t *testing.T) {
	ta := newTestApp(t)
	assert.Error(t, ta.run(t, "list", "-o", "xml"))
}

func TestRenameAndShow(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "rename", "2", "Tabs"))
	require.NoError(t, ta.run(t, "show", "2"))

	var item reconcile.VisibleItem
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &item))
	assert.Equal(t, "Tabs", item.Name)
	assert.True(t, item.NameOverridden)

	err := ta.run(t, "show", "99")
	assert.True(t, errors.IsNotFound(err))
}

func TestStock(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "stock", "3", "--", "-2,5"))
	items := ta.list(t, "salt")
	require.Len(t, items, 1)
	assert.Equal(t, -2.5, items[0].Stock)
	assert.True(t, items[0].Deficit)

	err := ta.run(t, "stock", "3", "a lot")
	assert.True(t, errors.IsInvalidEditValue(err))

	require.NoError(t, ta.run(t, "clear", "3", "--stock"))
	items = ta.list(t, "salt")
	assert.Zero(t, items[0].Stock)
	assert.False(t, items[0].StockOverridden)
}

func TestClear_DefaultsToBoth(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "rename", "1", "Bread flour"))
	require.NoError(t, ta.run(t, "stock", "1", "9"))
	require.NoError(t, ta.run(t, "clear", "1"))

	items := ta.list(t, "FL-1")
	require.Len(t, items, 1)
	assert.Equal(t, "Flour", items[0].Name)
	assert.Equal(t, 4.0, items[0].Stock)
}

func TestRemoveAndInclude(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "remove", "1"))
	assert.Equal(t, []string{"Engate 50", "Salt"}, names(ta.list(t)))

	require.NoError(t, ta.run(t, "include", "1"))
	assert.Equal(t, []string{"Engate 50", "Salt", "Flour"}, names(ta.list(t)))

	assert.True(t, errors.IsNotFound(ta.run(t, "include", "42")))
}

func TestMoveAndOrder(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "move", "3", "1"))
	assert.Equal(t, []string{"Salt", "Flour", "Engate 50"}, names(ta.list(t)))

	require.NoError(t, ta.run(t, "order", "2", "1", "3"))
	assert.Equal(t, []string{"Engate 50", "Flour", "Salt"}, names(ta.list(t)))

	err := ta.run(t, "order", "2", "1")
	assert.True(t, errors.IsOrderMembershipMismatch(err))

	require.NoError(t, ta.run(t, "move", "2", "10"))
	assert.Equal(t, []string{"Flour", "Salt", "Engate 50"}, names(ta.list(t)))

	err = ta.run(t, "move", "3", "first")
	assert.True(t, errors.IsValidationError(err))

	err = ta.run(t, "move", "42", "1")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "idle", ta.client(t).DragState().String())
}

func TestDropPoint(t *testing.T) {
	ids := []catalogs.ID{"a", "b", "c", "d"}
	layout := ordering.UniformLayout(ids, 1)

	tests := []struct {
		id   catalogs.ID
		at   int
		want []catalogs.ID
	}{
		{"c", 0, []catalogs.ID{"c", "a", "b", "d"}},
		{"a", 1, []catalogs.ID{"b", "a", "c", "d"}},
		{"a", 3, []catalogs.ID{"b", "c", "d", "a"}},
		{"d", 2, []catalogs.ID{"a", "b", "d", "c"}},
		{"b", 99, []catalogs.ID{"a", "c", "d", "b"}},
	}
	for _, tt := range tests {
		c := ordering.NewController()
		require.NoError(t, c.Begin(tt.id, layout))
		got, err := c.Move(dropPoint(ids, tt.id, tt.at), layout)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "drop %s at %d", tt.id, tt.at)
	}
}

func TestAdd(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "add", "local-1", "Yeast", "--sku", "YE-7", "--stock", "4,5"))
	items := ta.list(t)
	require.Len(t, items, 4)
	assert.Equal(t, "Yeast", items[3].Name)
	assert.Equal(t, 4.5, items[3].Stock)

	err := ta.run(t, "add", "1", "Duplicate")
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	err = ta.run(t, "add", "local-2", "Sugar", "--stock", "many")
	assert.True(t, errors.IsInvalidEditValue(err))
}

func TestReload(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "reload"))
	var changes differ.Changeset
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &changes))
	assert.Len(t, changes.Added, 3)

	require.NoError(t, ta.run(t, "reload"))
	changes = differ.Changeset{}
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &changes))
	assert.True(t, changes.IsEmpty())
}

func TestMissingAndPrune(t *testing.T) {
	ta := newTestApp(t)
	ta.list(t)

	// The catalog drops Salt.
	require.NoError(t, os.WriteFile(ta.catalog, []byte(`[{"id": 1, "name": "Flour"}, {"id": 2, "name": "Engate"}]`), 0o644))

	require.NoError(t, ta.run(t, "missing"))
	var missing []string
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &missing))
	assert.Equal(t, []string{"3"}, missing)
	assert.Equal(t, []string{"Flour", "Engate"}, names(ta.list(t)))

	require.NoError(t, ta.run(t, "prune"))
	require.NoError(t, ta.run(t, "missing"))
	assert.JSONEq(t, "[]", ta.out.String())
}

func TestMissingSource(t *testing.T) {
	app, err := New("dev", "", "", "",
		WithConfig(&Config{Format: "json", Backend: "memory:", LogOutput: "discard"}),
		WithOutput(&bytes.Buffer{}),
	)
	require.NoError(t, err)

	err = app.Execute(context.Background(), []string{"list"})
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "source", cfgErr.Component)
}

func TestVersion(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "version"))
	assert.Equal(t, "shelf 1.2.3 (commit abc123, built 2026-01-02 by test)\n", ta.out.String())
}

func TestCompletion(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "completion", "bash"))
	assert.Contains(t, ta.out.String(), "bash completion V2 for shelf")

	err := ta.run(t, "completion", "tcsh")
	assert.True(t, errors.IsValidationError(err))
}
