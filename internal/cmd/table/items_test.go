package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/differ"
	"github.com/agentstation/shelf/pkg/reconcile"
)

func TestItemsToTableData(t *testing.T) {
	items := []reconcile.VisibleItem{
		{Position: 0, ID: "1", Name: "Engate A", Stock: 12.5, StockOverridden: true},
		{Position: 1, ID: "2", Name: "Engate B", SKU: "B5", Stock: -3, Deficit: true},
	}

	data := ItemsToTableData(items, false)
	assert.Len(t, data.Headers, 5)
	assert.Equal(t, []string{"1", "1", "Engate A", "-", "12.5"}, data.Rows[0])
	assert.Equal(t, []string{"2", "2", "Engate B", "B5", "-3 (deficit)"}, data.Rows[1])

	wide := ItemsToTableData(items, true)
	assert.Equal(t, "Overrides", wide.Headers[5])
	assert.Equal(t, "stock", wide.Rows[0][5])
	assert.Equal(t, "-", wide.Rows[1][5])
}

func TestItemToTableData(t *testing.T) {
	item := reconcile.VisibleItem{
		Position: -1, ID: "7", Name: "Custom", Stock: 2, NameOverridden: true, StockOverridden: true,
		Source: catalogs.Item{ID: "7", Name: "Remote", Stock: catalogs.Float(4)},
	}
	rows := ItemToTableData(item).Rows
	assert.Contains(t, rows, []string{"Remote Name", "Remote"})
	assert.Contains(t, rows, []string{"Position", "not a member"})
	assert.Contains(t, rows, []string{"Remote Stock", "4"})
	assert.Contains(t, rows, []string{"Overrides", "name, stock"})
}

func TestChangesetToTableData(t *testing.T) {
	cs := &differ.Changeset{
		Added: []catalogs.Item{{ID: "3", Name: "New"}},
		Updated: []differ.ItemUpdate{{
			ID:      "1",
			Changes: []differ.FieldChange{{Path: "stock", OldValue: "10", NewValue: "8", Type: differ.ChangeTypeUpdate}},
		}},
		Removed: []catalogs.Item{{ID: "2", Name: "Gone"}},
	}
	data := ChangesetToTableData(cs)
	assert.Equal(t, [][]string{
		{"added", "3", "New", "-"},
		{"updated", "1", "stock", "10 -> 8"},
		{"removed", "2", "Gone", "-"},
	}, data.Rows)
}
