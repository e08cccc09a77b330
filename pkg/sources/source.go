// Package sources defines where catalog items come from. A Source fetches
// the authoritative item list; decorators add caching, and the Tracker
// enforces last-request-wins when fetches overlap.
//
// Example usage:
//
//	src := sources.NewCached(httpsrc.New(url), time.Minute)
//	tracker := sources.NewTracker()
//
//	token := tracker.Begin()
//	items, err := src.Fetch(ctx)
//	if err == nil && tracker.Accept(token) {
//	    // items are the newest result
//	}
package sources

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
)

// Source fetches the authoritative item list. Errors should match
// errors.ErrSourceUnavailable.
type Source interface {
	// ID names the source for logs and errors.
	ID() string
	// Fetch returns items in catalog order.
	Fetch(ctx context.Context) ([]catalogs.Item, error)
}

// Static serves a fixed item list. It is used by tests and demos, and can be
// switched to failing to exercise degraded mode.
type Static struct {
	mu    sync.RWMutex
	id    string
	items []catalogs.Item
	err   error
}

// NewStatic returns a source that serves items.
func NewStatic(id string, items ...catalogs.Item) *Static {
	return &Static{id: id, items: slices.Clone(items)}
}

// ID implements Source.
func (s *Static) ID() string { return s.id }

// Fetch implements Source.
func (s *Static) Fetch(ctx context.Context) ([]catalogs.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapSource(s.id, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, errors.WrapSource(s.id, s.err)
	}
	return slices.Clone(s.items), nil
}

// Set replaces the served items and clears any failure.
func (s *Static) Set(items ...catalogs.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
	s.err = nil
}

// Fail makes every following fetch fail with err until Set is called.
func (s *Static) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
