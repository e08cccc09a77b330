package differ

import (
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/agentstation/shelf/pkg/catalogs"
)

// Differ handles change detection between fetches.
type Differ interface {
	// Items compares two fetches and returns changes
	Items(existing, updated []catalogs.Item) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
	compareExtra bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
		compareExtra: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Items compares two fetches and returns changes.
func (diff *differ) Items(existing, updated []catalogs.Item) *Changeset {
	changeset := &Changeset{
		Added:   []catalogs.Item{},
		Updated: []ItemUpdate{},
		Removed: []catalogs.Item{},
	}

	existingMap := catalogs.Index(existing)
	newMap := catalogs.Index(updated)

	// Find added and updated items
	for _, newItem := range catalogs.Dedupe(updated) {
		if existingItem, exists := existingMap[newItem.ID]; exists {
			if changes := diff.item(existingItem, newItem); len(changes) > 0 {
				changeset.Updated = append(changeset.Updated, ItemUpdate{
					ID:       newItem.ID,
					Existing: existingItem,
					New:      newItem,
					Changes:  changes,
				})
			}
		} else {
			changeset.Added = append(changeset.Added, newItem)
		}
	}

	// Find removed items
	for _, existingItem := range catalogs.Dedupe(existing) {
		if _, exists := newMap[existingItem.ID]; !exists {
			changeset.Removed = append(changeset.Removed, existingItem)
		}
	}

	return changeset
}

// item returns the field changes between two versions of an item.
func (diff *differ) item(existing, updated catalogs.Item) []FieldChange {
	var changes []FieldChange

	diff.compareString(&changes, "short_name", existing.ShortName, updated.ShortName)
	diff.compareString(&changes, "official_name", existing.OfficialName, updated.OfficialName)
	diff.compareString(&changes, "name", existing.Name, updated.Name)
	diff.compareString(&changes, "sku", existing.SKU, updated.SKU)
	diff.compareString(&changes, "stock", stockString(existing.Stock), stockString(updated.Stock))

	if diff.compareExtra && !cmp.Equal(existing.Extra, updated.Extra, cmp.Comparer(equalRaw)) {
		keys := make(map[string]bool)
		for k := range existing.Extra {
			keys[k] = true
		}
		for k := range updated.Extra {
			keys[k] = true
		}
		sorted := make([]string, 0, len(keys))
		for k := range keys {
			sorted = append(sorted, k)
		}
		sort.Strings(sorted)
		for _, k := range sorted {
			diff.compareString(&changes, "extra."+k, string(existing.Extra[k]), string(updated.Extra[k]))
		}
	}

	return changes
}

// compareString appends a change for path when the values differ.
func (diff *differ) compareString(changes *[]FieldChange, path, oldValue, newValue string) {
	if diff.ignoreFields[path] || oldValue == newValue {
		return
	}

	changeType := ChangeTypeUpdate
	switch {
	case oldValue == "":
		changeType = ChangeTypeAdd
	case newValue == "":
		changeType = ChangeTypeRemove
	}

	*changes = append(*changes, FieldChange{
		Path:     path,
		OldValue: oldValue,
		NewValue: newValue,
		Type:     changeType,
	})
}

func stockString(stock *float64) string {
	if stock == nil {
		return ""
	}
	return catalogs.FormatStock(*stock)
}

func equalRaw(a, b []byte) bool {
	return string(a) == string(b)
}
