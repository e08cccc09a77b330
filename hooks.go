package shelf

import (
	"sync"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/differ"
	"github.com/agentstation/shelf/pkg/writequeue"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for catalog events
type (
	// ItemAddedHook is called when a reload returns an item the previous one did not
	ItemAddedHook func(item catalogs.Item)

	// ItemUpdatedHook is called when a reload returns changed fields for an item
	ItemUpdatedHook func(old, new catalogs.Item, changes []differ.FieldChange)

	// ItemRemovedHook is called when a reload no longer returns an item
	ItemRemovedHook func(item catalogs.Item)

	// WriteFailedHook is called when a remote write is dropped
	WriteFailedHook func(n writequeue.Notification)
)

// Hooks registers callbacks for catalog and remote write events.
type Hooks interface {
	OnItemAdded(fn ItemAddedHook)
	OnItemUpdated(fn ItemUpdatedHook)
	OnItemRemoved(fn ItemRemovedHook)
	OnWriteFailed(fn WriteFailedHook)
}

// hooks manages event callbacks for catalog changes
type hooks struct {
	mu            sync.RWMutex
	onItemAdded   []ItemAddedHook
	onItemUpdated []ItemUpdatedHook
	onItemRemoved []ItemRemovedHook
	onWriteFailed []WriteFailedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnItemAdded registers a callback for when items are added
func (c *client) OnItemAdded(fn ItemAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onItemAdded = append(c.hooks.onItemAdded, fn)
}

// OnItemUpdated registers a callback for when items are updated
func (c *client) OnItemUpdated(fn ItemUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onItemUpdated = append(c.hooks.onItemUpdated, fn)
}

// OnItemRemoved registers a callback for when items are removed
func (c *client) OnItemRemoved(fn ItemRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onItemRemoved = append(c.hooks.onItemRemoved, fn)
}

// OnWriteFailed registers a callback for dropped remote writes
func (c *client) OnWriteFailed(fn WriteFailedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onWriteFailed = append(c.hooks.onWriteFailed, fn)
}

// triggerChangeset fires the item hooks for a reload's changeset
func (h *hooks) triggerChangeset(cs *differ.Changeset) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, item := range cs.Added {
		for _, hook := range h.onItemAdded {
			hook(item)
		}
	}
	for _, u := range cs.Updated {
		for _, hook := range h.onItemUpdated {
			hook(u.Existing, u.New, u.Changes)
		}
	}
	for _, item := range cs.Removed {
		for _, hook := range h.onItemRemoved {
			hook(item)
		}
	}
}

func (h *hooks) triggerWriteFailed(n writequeue.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onWriteFailed {
		hook(n)
	}
}
