// Package httpsrc fetches the catalog from an HTTP endpoint returning JSON.
package httpsrc

import (
	"context"
	"encoding/json"

	"github.com/agentstation/shelf/internal/sources/local"
	"github.com/agentstation/shelf/internal/transport"
	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// Source is a remote catalog served over HTTP.
type Source struct {
	url    string
	id     string
	client *transport.Client
}

// Option configures a Source.
type Option func(*Source)

// WithClient sets the transport client, for authentication or custom timeouts.
func WithClient(client *transport.Client) Option {
	return func(s *Source) {
		if client != nil {
			s.client = client
		}
	}
}

// WithID overrides the source id, which defaults to the URL.
func WithID(id string) Option {
	return func(s *Source) {
		s.id = id
	}
}

// New creates a source fetching url.
func New(url string, opts ...Option) *Source {
	s := &Source{
		url:    url,
		id:     url,
		client: transport.New(&transport.NoAuth{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID implements sources.Source.
func (s *Source) ID() string { return s.id }

// Fetch implements sources.Source. Network failures, non-2xx responses and
// malformed payloads are all reported as SourceUnavailable.
func (s *Source) Fetch(ctx context.Context) ([]catalogs.Item, error) {
	log := logging.FromContext(ctx)

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, errors.WrapSource(s.id, err)
	}

	var raw json.RawMessage
	if err := transport.DecodeResponse(resp, &raw); err != nil {
		return nil, errors.WrapSource(s.id, err)
	}

	items, err := local.Decode("json", raw)
	if err != nil {
		return nil, errors.WrapSource(s.id, errors.WrapParse("json", s.url, err))
	}

	log.Debug().
		Str("source", s.id).
		Int("items", len(items)).
		Msg("Fetched remote catalog")
	return items, nil
}
