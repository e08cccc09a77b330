package shelf

import (
	"context"
	"slices"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/ordering"
)

// Compile-time interface check to ensure proper implementation.
var _ Orderer = (*client)(nil)

// Orderer commits manual orderings, directly or through a drag session.
type Orderer interface {
	// Reorder replaces the member order. ids must hold exactly the members.
	Reorder(ctx context.Context, ids []catalogs.ID) error

	// Move puts member id at position, counted from zero and clamped.
	Move(ctx context.Context, id catalogs.ID, position int) error

	// BeginDrag starts a drag session on id over the rendered layout.
	BeginDrag(id catalogs.ID, layout []ordering.Slot) error

	// DragMove repositions the dragged item and returns the visual order.
	DragMove(pointerY float64, layout []ordering.Slot) ([]catalogs.ID, error)

	// ReleaseDrag ends the session and commits the visual order. Members
	// hidden from the layout keep their slots.
	ReleaseDrag(ctx context.Context) error

	// CancelDrag ends the session without committing.
	CancelDrag() []catalogs.ID

	// DragState reports whether a drag session is active.
	DragState() ordering.State
}

// Reorder implements Orderer.
func (c *client) Reorder(ctx context.Context, ids []catalogs.ID) error {
	return c.store.SetOrder(c.ctx(ctx), ids)
}

// Move implements Orderer.
func (c *client) Move(ctx context.Context, id catalogs.ID, position int) error {
	members := c.store.Area().Members
	from := slices.Index(members, id)
	if from < 0 {
		return errors.NewNotFoundError("member", string(id))
	}
	order := slices.Delete(slices.Clone(members), from, from+1)
	position = max(0, min(position, len(order)))
	order = slices.Insert(order, position, id)
	return c.store.SetOrder(c.ctx(ctx), order)
}

// BeginDrag implements Orderer.
func (c *client) BeginDrag(id catalogs.ID, layout []ordering.Slot) error {
	return c.drag.Begin(id, layout)
}

// DragMove implements Orderer.
func (c *client) DragMove(pointerY float64, layout []ordering.Slot) ([]catalogs.ID, error) {
	return c.drag.Move(pointerY, layout)
}

// ReleaseDrag implements Orderer. The order is read when the drag is
// released, so earlier commits are never overwritten by a stale snapshot.
func (c *client) ReleaseDrag(ctx context.Context) error {
	visual, err := c.drag.Release()
	if err != nil {
		return err
	}
	members := c.store.Area().Members
	return c.store.SetOrder(c.ctx(ctx), ordering.MergeOrder(members, visual))
}

// CancelDrag implements Orderer.
func (c *client) CancelDrag() []catalogs.ID {
	return c.drag.Cancel()
}

// DragState implements Orderer.
func (c *client) DragState() ordering.State {
	return c.drag.State()
}
