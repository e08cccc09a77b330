// Package reconcile merges an authoritative remote catalog with a local
// overlay into the ordered view presented to the user.
//
// Every function in this package is pure: results depend only on the
// arguments, and arguments are never mutated.
package reconcile

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/overlay"
)

// VisibleItem is an item with overrides applied, as it should be shown.
type VisibleItem struct {
	Position        int           `json:"position" yaml:"position"`
	ID              catalogs.ID   `json:"id" yaml:"id"`
	Name            string        `json:"name" yaml:"name"`
	SKU             string        `json:"sku,omitempty" yaml:"sku,omitempty"`
	Stock           float64       `json:"stock" yaml:"stock"`
	Deficit         bool          `json:"deficit,omitempty" yaml:"deficit,omitempty"`
	NameOverridden  bool          `json:"name_overridden,omitempty" yaml:"name_overridden,omitempty"`
	StockOverridden bool          `json:"stock_overridden,omitempty" yaml:"stock_overridden,omitempty"`
	Source          catalogs.Item `json:"-" yaml:"-"`
}

// ComputeVisible returns the members of area present in items, with
// overrides applied, filtered by query and in member order.
//
// Member ids missing from items are skipped: the catalog decides existence,
// the overlay decides presentation and order. When area has no members and
// items is non-empty, every item is adopted in fetch order. The adoption is
// computed on a copy; Bootstrap and overlay.Store.Adopt persist it.
func ComputeVisible(items []catalogs.Item, area overlay.Area, query string) []VisibleItem {
	index := catalogs.Index(items)
	area, _ = Bootstrap(area, items)

	match := matcher(query)
	visible := make([]VisibleItem, 0, len(area.Members))
	for _, id := range area.Members {
		item, ok := index[id]
		if !ok {
			continue
		}
		v := apply(item, area)
		if !match(v) {
			continue
		}
		v.Position = len(visible)
		visible = append(visible, v)
	}
	return visible
}

// Bootstrap returns area with its empty membership seeded from items in
// fetch order, and whether that happened. An area that already has members
// is returned unchanged whatever items holds.
func Bootstrap(area overlay.Area, items []catalogs.Item) (overlay.Area, bool) {
	return area.Adopted(catalogs.IDs(catalogs.Dedupe(items)))
}

// Find resolves a single item by id with overrides applied. Membership is not
// required, so removed items can still be inspected.
func Find(items []catalogs.Item, area overlay.Area, id catalogs.ID) (VisibleItem, bool) {
	for _, item := range items {
		if item.ID != id {
			continue
		}
		v := apply(item, area)
		v.Position = -1
		for i, member := range area.Members {
			if member == id {
				v.Position = i
				break
			}
		}
		return v, true
	}
	return VisibleItem{}, false
}

// MergeLocal appends locally added items to a remote fetch. Remote items come
// first in fetch order; a local item whose id the remote also returned is
// dropped, since the remote wins on id match.
func MergeLocal(remote, local []catalogs.Item) []catalogs.Item {
	merged := make([]catalogs.Item, 0, len(remote)+len(local))
	merged = append(merged, remote...)
	seen := catalogs.Index(remote)
	for _, item := range local {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = item
		merged = append(merged, item)
	}
	return merged
}

// Missing returns the members of area that items does not contain, in member
// order. These are candidates for overlay.Store.Prune.
func Missing(items []catalogs.Item, area overlay.Area) []catalogs.ID {
	index := catalogs.Index(items)
	var missing []catalogs.ID
	for _, id := range area.Members {
		if _, ok := index[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Match reports whether v satisfies the search query. Matching is a
// case-insensitive substring test against the name, the SKU and the id.
func Match(v VisibleItem, query string) bool {
	return matcher(query)(v)
}

func matcher(query string) func(VisibleItem) bool {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return func(VisibleItem) bool { return true }
	}
	return func(v VisibleItem) bool {
		return strings.Contains(fold.String(v.Name), q) ||
			strings.Contains(fold.String(v.SKU), q) ||
			strings.Contains(fold.String(string(v.ID)), q)
	}
}

// apply resolves an item's presentation against the area's overrides.
func apply(item catalogs.Item, area overlay.Area) VisibleItem {
	v := VisibleItem{
		ID:     item.ID,
		Name:   item.DisplayName(),
		SKU:    item.SKU,
		Stock:  item.StockValue(),
		Source: item,
	}
	if entry, ok := area.Override(item.ID); ok {
		if entry.Name != nil {
			v.Name = *entry.Name
			v.NameOverridden = true
		}
		if entry.Stock != nil {
			v.Stock = *entry.Stock
			v.StockOverridden = true
		}
	}
	v.Deficit = v.Stock < 0
	return v
}
