package shelf

import (
	"slices"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/overlay"
	"github.com/agentstation/shelf/pkg/reconcile"
	"github.com/agentstation/shelf/pkg/writequeue"
)

// Compile-time interface check to ensure proper implementation.
var _ Viewer = (*client)(nil)

// Viewer gives read access to the reconciled view.
type Viewer interface {
	// Visible returns the member items matching query, in manual order.
	Visible(query string) []reconcile.VisibleItem

	// Item resolves one item, member or not, with overrides applied.
	Item(id catalogs.ID) (reconcile.VisibleItem, error)

	// Items returns the last accepted fetch followed by local additions.
	Items() []catalogs.Item

	// Area returns a copy of the overlay.
	Area() overlay.Area

	// Missing returns members that the current items no longer contain.
	Missing() []catalogs.ID

	// WriteStats returns remote write counters. Zero when no writer is set.
	WriteStats() writequeue.Stats
}

// Visible implements Viewer.
func (c *client) Visible(query string) []reconcile.VisibleItem {
	return reconcile.ComputeVisible(c.Items(), c.store.Area(), query)
}

// Item implements Viewer.
func (c *client) Item(id catalogs.ID) (reconcile.VisibleItem, error) {
	v, ok := reconcile.Find(c.Items(), c.store.Area(), id)
	if !ok {
		return reconcile.VisibleItem{}, errors.NewNotFoundError("item", string(id))
	}
	return v, nil
}

// Items implements Viewer.
func (c *client) Items() []catalogs.Item {
	c.mu.RLock()
	remote := slices.Clone(c.remote)
	c.mu.RUnlock()
	return reconcile.MergeLocal(remote, c.store.Area().Local)
}

// Area implements Viewer.
func (c *client) Area() overlay.Area {
	return c.store.Area()
}

// Missing implements Viewer.
func (c *client) Missing() []catalogs.ID {
	return reconcile.Missing(c.Items(), c.store.Area())
}

// WriteStats implements Viewer.
func (c *client) WriteStats() writequeue.Stats {
	if c.queue == nil {
		return writequeue.Stats{}
	}
	return c.queue.Stats()
}

// known reports whether id is in the current items.
func (c *client) known(id catalogs.ID) bool {
	_, ok := catalogs.Index(c.Items())[id]
	return ok
}
