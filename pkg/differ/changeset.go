// Package differ provides functionality for comparing two catalog fetches
// and detecting which items were added, updated or removed.
package differ

import (
	"fmt"
	"strings"

	"github.com/agentstation/shelf/pkg/catalogs"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     // Field path (e.g., "stock" or "extra.color")
	OldValue string     // Previous value (string representation)
	NewValue string     // New value (string representation)
	Type     ChangeType // Type of change
}

// ItemUpdate represents an update to an existing item.
type ItemUpdate struct {
	ID       catalogs.ID   // ID of the item being updated
	Existing catalogs.Item // Previous item
	New      catalogs.Item // New item
	Changes  []FieldChange // Detailed list of field changes
}

// Changeset represents all changes between two fetches.
type Changeset struct {
	Added   []catalogs.Item // Items only in the new fetch, in fetch order
	Updated []ItemUpdate    // Items whose fields changed, in fetch order
	Removed []catalogs.Item // Items only in the old fetch, in old fetch order
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Total() > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Total() == 0
}

// Total returns the number of changed items.
func (c *Changeset) Total() int {
	return len(c.Added) + len(c.Updated) + len(c.Removed)
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if len(c.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(c.Added)))
	}
	if len(c.Updated) > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", len(c.Updated)))
	}
	if len(c.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(c.Removed)))
	}
	return "Items: " + strings.Join(parts, ", ")
}
