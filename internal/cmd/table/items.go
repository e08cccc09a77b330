// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strconv"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/differ"
	"github.com/agentstation/shelf/pkg/reconcile"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ItemsToTableData converts visible items to table format. Wide output adds
// the override markers.
func ItemsToTableData(items []reconcile.VisibleItem, wide bool) Data {
	headers := []string{"#", "ID", "Name", "SKU", "Stock"}
	align := []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignRight}
	if wide {
		headers = append(headers, "Overrides")
		align = append(align, AlignLeft)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := []string{
			strconv.Itoa(item.Position + 1),
			string(item.ID),
			item.Name,
			orDash(item.SKU),
			FormatStock(item),
		}
		if wide {
			row = append(row, FormatOverrides(item))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// ItemToTableData renders one item as a property/value table.
func ItemToTableData(item reconcile.VisibleItem) Data {
	position := "not a member"
	if item.Position >= 0 {
		position = strconv.Itoa(item.Position + 1)
	}
	remote := item.Source
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"ID", string(item.ID)},
			{"Name", item.Name},
			{"Remote Name", remote.DisplayName()},
			{"SKU", orDash(item.SKU)},
			{"Stock", FormatStock(item)},
			{"Remote Stock", catalogs.FormatStock(remote.StockValue())},
			{"Position", position},
			{"Overrides", FormatOverrides(item)},
		},
	}
}

// ChangesetToTableData lists what a reload changed.
func ChangesetToTableData(cs *differ.Changeset) Data {
	var rows [][]string
	for _, item := range cs.Added {
		rows = append(rows, []string{"added", string(item.ID), item.DisplayName(), "-"})
	}
	for _, u := range cs.Updated {
		for _, c := range u.Changes {
			rows = append(rows, []string{"updated", string(u.ID), c.Path, c.OldValue + " -> " + c.NewValue})
		}
	}
	for _, item := range cs.Removed {
		rows = append(rows, []string{"removed", string(item.ID), item.DisplayName(), "-"})
	}
	return Data{Headers: []string{"Change", "ID", "Field", "Value"}, Rows: rows}
}

// FormatStock renders the stock value, marking a deficit.
func FormatStock(item reconcile.VisibleItem) string {
	s := catalogs.FormatStock(item.Stock)
	if item.Deficit {
		s += " (deficit)"
	}
	return s
}

// FormatOverrides lists the overridden fields.
func FormatOverrides(item reconcile.VisibleItem) string {
	switch {
	case item.NameOverridden && item.StockOverridden:
		return "name, stock"
	case item.NameOverridden:
		return "name"
	case item.StockOverridden:
		return "stock"
	default:
		return "-"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
