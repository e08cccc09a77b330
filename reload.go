package shelf

import (
	"context"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/differ"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
	"github.com/agentstation/shelf/pkg/reconcile"
)

// Compile-time interface check to ensure proper implementation.
var _ Reloader = (*client)(nil)

// Reloader fetches the remote catalog.
type Reloader interface {
	// Reload fetches the catalog and replaces the previous fetch wholesale.
	// On failure the previous view is kept, the client is flagged degraded
	// and a SourceUnavailable error is returned. A fetch superseded by a
	// newer Reload returns ErrStale and changes nothing.
	Reload(ctx context.Context) (*differ.Changeset, error)

	// Degraded reports whether the last fetch failed.
	Degraded() bool

	// LastError returns the error of the last failed fetch, if degraded.
	LastError() error
}

// Reload implements Reloader.
func (c *client) Reload(ctx context.Context) (*differ.Changeset, error) {
	ctx = logging.WithSource(c.ctx(ctx), c.options.source.ID())
	log := logging.FromContext(ctx)

	if c.tracker.Closed() {
		return nil, errors.ErrClosed
	}
	token := c.tracker.Begin()

	log.Debug().Uint64("token", uint64(token)).Msg("Fetching catalog")
	items, err := c.options.source.Fetch(ctx)

	c.mu.Lock()
	// Checked under mu so an older fetch can never land after a newer one.
	if !c.tracker.Accept(token) {
		c.mu.Unlock()
		log.Debug().Uint64("token", uint64(token)).Msg("Discarding superseded fetch")
		return nil, errors.ErrStale
	}
	if err != nil {
		if !errors.IsSourceUnavailable(err) {
			err = errors.WrapSource(c.options.source.ID(), err)
		}
		c.degraded = true
		c.lastErr = err
		c.mu.Unlock()
		log.Warn().Err(err).Msg("Catalog unavailable, keeping last view")
		return nil, err
	}

	items = catalogs.Dedupe(items)
	previous := c.remote
	c.remote = items
	c.fetched = true
	c.degraded = false
	c.lastErr = nil
	c.mu.Unlock()

	area := c.store.Area()
	if c.store.Adopt(ctx, catalogs.IDs(reconcile.MergeLocal(items, area.Local))) {
		log.Info().Int("members", len(items)).Msg("Adopted catalog into empty overlay")
	}

	changeset := differ.New().Items(previous, items)
	log.Info().
		Int("items", len(items)).
		Int("added", len(changeset.Added)).
		Int("updated", len(changeset.Updated)).
		Int("removed", len(changeset.Removed)).
		Msg("Catalog reloaded")

	c.hooks.triggerChangeset(changeset)
	return changeset, nil
}

// Degraded implements Reloader.
func (c *client) Degraded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.degraded
}

// LastError implements Reloader.
func (c *client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
