package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFetch_JSON(t *testing.T) {
	path := writeFile(t, "catalog.json", `[{"id":1,"name":"Engate A","stock":10},{"id":2,"name":"Engate B","stock":-3}]`)

	src := New(path)
	assert.Equal(t, "file:"+path, src.ID())

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []catalogs.ID{"1", "2"}, catalogs.IDs(items))
	assert.Equal(t, float64(-3), items[1].StockValue())
}

func TestFetch_YAML(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
items:
  - id: 5
    short_name: Five
    sku: AX-1
  - id: "12"
    name: Twelve
    sku: B5
`)

	items, err := New(path, WithID("yaml")).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, catalogs.ID("5"), items[0].ID)
	assert.Equal(t, "Five", items[0].DisplayName())
	assert.Equal(t, "B5", items[1].SKU)
}

func TestFetch_YAMLStockIsLenient(t *testing.T) {
	path := writeFile(t, "catalog.yml", `
- id: 1
  name: Flour
  stock: "12,5"
- id: 2
  name: Salt
  stock: abc
`)

	items, err := New(path).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 12.5, items[0].StockValue())
	assert.Nil(t, items[1].Stock)
}

func TestFetch_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := New(filepath.Join(t.TempDir(), "missing.json")).Fetch(ctx)
	assert.True(t, errors.IsSourceUnavailable(err))

	path := writeFile(t, "broken.json", `{"items": [`)
	_, err = New(path).Fetch(ctx)
	assert.True(t, errors.IsSourceUnavailable(err))
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = New(path).Fetch(cancelled)
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, "yaml", FormatFor("a/b.YML"))
	assert.Equal(t, "yaml", FormatFor("c.yaml"))
	assert.Equal(t, "json", FormatFor("c.json"))
	assert.Equal(t, "json", FormatFor("noext"))
}
