package shelf

import (
	"context"
	"strings"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
	"github.com/agentstation/shelf/pkg/overlay"
	"github.com/agentstation/shelf/pkg/writequeue"
)

// Compile-time interface check to ensure proper implementation.
var _ Editor = (*client)(nil)

// Editor applies local edits. Every edit is validated before the overlay is
// touched and persisted right after. Renames, stock edits and additions are
// also forwarded to the remote writer, if any, without waiting for it.
type Editor interface {
	// Rename overrides the display name of a known item.
	Rename(ctx context.Context, id catalogs.ID, name string) error

	// SetStock parses raw with catalogs.ParseStock and overrides the stock.
	SetStock(ctx context.Context, id catalogs.ID, raw string) error

	// SetStockValue overrides the stock with an already numeric value.
	SetStockValue(ctx context.Context, id catalogs.ID, stock float64) error

	// ClearName drops the name override, restoring the remote name.
	ClearName(ctx context.Context, id catalogs.ID) error

	// ClearStock drops the stock override, restoring the remote stock.
	ClearStock(ctx context.Context, id catalogs.ID) error

	// Remove drops id from the members and deletes its overrides.
	Remove(ctx context.Context, id catalogs.ID) error

	// Include appends a known, non-member item to the members.
	Include(ctx context.Context, id catalogs.ID) error

	// Add records a locally created item and appends it to the members.
	Add(ctx context.Context, item catalogs.Item) error

	// Prune drops members and overrides the current fetch no longer has.
	Prune(ctx context.Context) ([]catalogs.ID, error)
}

// Rename implements Editor.
func (c *client) Rename(ctx context.Context, id catalogs.ID, name string) error {
	ctx = logging.WithItem(c.ctx(ctx), string(id))
	if err := c.requireKnown(id); err != nil {
		return err
	}
	if err := c.store.SetOverride(ctx, id, overlay.Patch{Name: &name}); err != nil {
		return err
	}
	c.forward(ctx, writequeue.NewAction(writequeue.KindEdit, id, map[string]any{"name": strings.TrimSpace(name)}))
	return nil
}

// SetStock implements Editor.
func (c *client) SetStock(ctx context.Context, id catalogs.ID, raw string) error {
	stock, err := catalogs.ParseStock(raw)
	if err != nil {
		return err
	}
	return c.SetStockValue(ctx, id, stock)
}

// SetStockValue implements Editor.
func (c *client) SetStockValue(ctx context.Context, id catalogs.ID, stock float64) error {
	ctx = logging.WithItem(c.ctx(ctx), string(id))
	if err := c.requireKnown(id); err != nil {
		return err
	}
	if err := c.store.SetOverride(ctx, id, overlay.Patch{Stock: &stock}); err != nil {
		return err
	}
	c.forward(ctx, writequeue.NewAction(writequeue.KindEdit, id, map[string]any{"stock": stock}))
	return nil
}

// ClearName implements Editor.
func (c *client) ClearName(ctx context.Context, id catalogs.ID) error {
	return c.store.ClearOverride(logging.WithItem(c.ctx(ctx), string(id)), id, overlay.FieldName)
}

// ClearStock implements Editor.
func (c *client) ClearStock(ctx context.Context, id catalogs.ID) error {
	return c.store.ClearOverride(logging.WithItem(c.ctx(ctx), string(id)), id, overlay.FieldStock)
}

// Remove implements Editor.
func (c *client) Remove(ctx context.Context, id catalogs.ID) error {
	return c.store.RemoveMember(logging.WithItem(c.ctx(ctx), string(id)), id)
}

// Include implements Editor.
func (c *client) Include(ctx context.Context, id catalogs.ID) error {
	if err := c.requireKnown(id); err != nil {
		return err
	}
	return c.store.AddMember(logging.WithItem(c.ctx(ctx), string(id)), id)
}

// Add implements Editor.
func (c *client) Add(ctx context.Context, item catalogs.Item) error {
	ctx = logging.WithItem(c.ctx(ctx), string(item.ID))
	if c.known(item.ID) {
		return errors.WrapResource("add", "item", string(item.ID), errors.ErrAlreadyExists)
	}
	if err := c.store.AddLocal(ctx, item); err != nil {
		return err
	}

	fields := map[string]any{"name": item.DisplayName()}
	if item.SKU != "" {
		fields["sku"] = item.SKU
	}
	if item.Stock != nil {
		fields["stock"] = *item.Stock
	}
	c.forward(ctx, writequeue.NewAction(writequeue.KindAdd, item.ID, fields))
	return nil
}

// Prune implements Editor. It refuses to run before a successful fetch or
// while degraded, so a failing source never wipes the overlay.
func (c *client) Prune(ctx context.Context) ([]catalogs.ID, error) {
	c.mu.RLock()
	fetched, degraded := c.fetched, c.degraded
	c.mu.RUnlock()
	if !fetched || degraded {
		return nil, errors.NewValidationError("catalog", nil, "prune needs a successful reload")
	}

	ctx = c.ctx(ctx)
	pruned := c.store.Prune(ctx, catalogs.IDs(c.Items()))
	if len(pruned) > 0 {
		logging.FromContext(ctx).Info().Int("pruned", len(pruned)).Msg("Pruned overlay")
	}
	return pruned, nil
}

func (c *client) requireKnown(id catalogs.ID) error {
	if id == "" {
		return errors.NewValidationError("id", id, "id cannot be empty")
	}
	if !c.known(id) {
		return errors.NewNotFoundError("item", string(id))
	}
	return nil
}

// forward hands an action to the write queue. The local edit is already
// committed; a full or closed queue only drops the action.
func (c *client) forward(ctx context.Context, action writequeue.Action) {
	if c.queue == nil {
		return
	}
	if !c.queue.Enqueue(action) {
		logging.FromContext(ctx).Debug().
			Str("action_id", action.ID).
			Msg("Remote write not queued")
	}
}
