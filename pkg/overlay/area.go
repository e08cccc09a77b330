// Package overlay holds the local presentation state layered on top of a
// remote catalog: which items are members of an area, in what manual order,
// and which names or stock counts have been overridden.
//
// The Store is the only writer of an Area. Every mutator validates its
// input before touching state and persists the result through a Backend.
package overlay

import (
	"slices"
	"time"

	"github.com/agentstation/shelf/pkg/catalogs"
)

// Entry is the per-item override record. A nil field defers to the remote value.
type Entry struct {
	Name  *string  `json:"name,omitempty" yaml:"name,omitempty"`
	Stock *float64 `json:"stock,omitempty" yaml:"stock,omitempty"`
}

// IsEmpty reports whether the entry overrides nothing.
func (e Entry) IsEmpty() bool {
	return e.Name == nil && e.Stock == nil
}

// Patch describes a partial override. Nil fields leave the entry untouched.
type Patch struct {
	Name  *string
	Stock *float64
}

// Field selects which overrides ClearOverride removes.
type Field uint8

const (
	// FieldName selects the name override.
	FieldName Field = 1 << iota
	// FieldStock selects the stock override.
	FieldStock

	// FieldAll selects every override.
	FieldAll = FieldName | FieldStock
)

// Area is the overlay root for one collection.
type Area struct {
	ID        string
	Members   []catalogs.ID
	Overrides map[catalogs.ID]Entry
	Local     []catalogs.Item
	SavedAt   time.Time
}

// NewArea returns an empty area with the given id.
func NewArea(id string) Area {
	return Area{
		ID:        id,
		Overrides: make(map[catalogs.ID]Entry),
	}
}

// Clone returns a deep copy of the area.
func (a Area) Clone() Area {
	out := Area{
		ID:        a.ID,
		Members:   slices.Clone(a.Members),
		Overrides: make(map[catalogs.ID]Entry, len(a.Overrides)),
		Local:     slices.Clone(a.Local),
		SavedAt:   a.SavedAt,
	}
	for id, e := range a.Overrides {
		out.Overrides[id] = cloneEntry(e)
	}
	return out
}

// IsMember reports whether id is in Members.
func (a Area) IsMember(id catalogs.ID) bool {
	return slices.Contains(a.Members, id)
}

// Override returns the override entry for id.
func (a Area) Override(id catalogs.ID) (Entry, bool) {
	e, ok := a.Overrides[id]
	return e, ok
}

// LocalItem returns the locally added item with the given id.
func (a Area) LocalItem(id catalogs.ID) (catalogs.Item, bool) {
	for _, item := range a.Local {
		if item.ID == id {
			return item, true
		}
	}
	return catalogs.Item{}, false
}

func cloneEntry(e Entry) Entry {
	var out Entry
	if e.Name != nil {
		name := *e.Name
		out.Name = &name
	}
	if e.Stock != nil {
		stock := *e.Stock
		out.Stock = &stock
	}
	return out
}
