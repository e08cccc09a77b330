// Package shelf is a client-side catalog overlay. It loads an authoritative
// item list from a remote source and layers a persisted local overlay on top:
// renamed items, stock overrides, a manual order and per-item membership.
// The remote catalog is never mutated; local additions and edits are only
// forwarded on a best-effort basis.
//
// Example usage:
//
//	// Create a client reading a remote catalog, keeping the overlay on disk
//	backend, closer, err := shelf.OpenBackend(ctx, "file://~/.shelf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer closer.Close()
//
//	sh, err := shelf.New(
//	    shelf.WithSource(httpsrc.New("https://example.com/catalog.json")),
//	    shelf.WithBackend(backend),
//	    shelf.WithArea("kitchen"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sh.Close(ctx)
//
//	// Fetch the catalog; the first successful fetch adopts every item
//	if _, err := sh.Reload(ctx); err != nil {
//	    log.Printf("catalog unavailable, showing last good view: %v", err)
//	}
//
//	// Search the visible items, in manual order
//	for _, item := range sh.Visible("engate") {
//	    fmt.Printf("%d. %s (%s)\n", item.Position+1, item.Name, catalogs.FormatStock(item.Stock))
//	}
//
//	// Local edits
//	err = sh.SetStock(ctx, "2", "12,5")
package shelf

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
	"github.com/agentstation/shelf/pkg/ordering"
	"github.com/agentstation/shelf/pkg/overlay"
	"github.com/agentstation/shelf/pkg/sources"
	"github.com/agentstation/shelf/pkg/writequeue"
)

// Client manages one overlay area on top of a remote catalog.
type Client interface {

	// Viewer gives read access to the reconciled view
	Viewer

	// Reloader fetches the remote catalog
	Reloader

	// Editor applies local edits to the overlay
	Editor

	// Orderer commits manual orderings
	Orderer

	// AutoReloader provides access to periodic reload controls
	AutoReloader

	// Hooks provides access to event callback registration
	Hooks

	// Close stops background work and flushes pending remote writes
	Close(ctx context.Context) error
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options
	logger  *zerolog.Logger

	// remote is the last accepted fetch, replaced wholesale on every reload
	mu       sync.RWMutex
	remote   []catalogs.Item
	fetched  bool
	degraded bool
	lastErr  error

	store   *overlay.Store
	tracker *sources.Tracker
	drag    *ordering.Controller
	queue   *writequeue.Queue
	hooks   *hooks

	// auto reload state
	autoMu       sync.Mutex
	reloadCancel context.CancelFunc
	reloadDone   chan struct{}

	closeOnce sync.Once
}

// New creates a new Client instance with the given options. The stored
// overlay is loaded immediately; the catalog is fetched on Reload or by the
// auto reloader.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.source == nil {
		return nil, errors.NewConfigError("client", "a catalog source is required", nil)
	}

	logger := o.logger.With().Str("area", o.area).Logger()
	c := &client{
		options: o,
		logger:  &logger,
		tracker: sources.NewTracker(),
		drag:    ordering.NewController(),
		hooks:   newHooks(),
	}

	c.store = overlay.NewStore(o.backend, o.area,
		overlay.WithCodec(o.codec),
		overlay.WithLogger(c.logger),
	)

	ctx := logging.WithLogger(context.Background(), c.logger)
	area := c.store.Load(ctx)
	c.logger.Debug().
		Int("members", len(area.Members)).
		Int("local_items", len(area.Local)).
		Msg("Overlay ready")

	if o.writer != nil {
		c.queue = writequeue.New(o.writer,
			writequeue.WithSize(o.queueSize),
			writequeue.WithLogger(c.logger),
			writequeue.WithNotifier(c.notify),
		)
	}

	if o.autoReload {
		if err := c.AutoReloadOn(); err != nil {
			_ = c.Close(context.Background())
			return nil, errors.WrapResource("start", "auto-reload", o.area, err)
		}
	}

	return c, nil
}

// notify fans a dropped remote write out to the configured notifier and hooks.
func (c *client) notify(n writequeue.Notification) {
	if c.options.notifier != nil {
		c.options.notifier(n)
	}
	c.hooks.triggerWriteFailed(n)
}

// ctx attaches the client logger unless ctx already carries one.
func (c *client) ctx(ctx context.Context) context.Context {
	if logging.FromContext(ctx) == logging.Default() {
		return logging.WithLogger(ctx, c.logger)
	}
	return ctx
}
