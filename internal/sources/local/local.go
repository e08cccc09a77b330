// Package local serves a catalog stored in a local JSON or YAML file.
package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// Source loads a catalog from a file on every fetch.
type Source struct {
	path string
	id   string
}

// Option configures a local source.
type Option func(*Source)

// WithID overrides the source id, which defaults to "file:<path>".
func WithID(id string) Option {
	return func(s *Source) {
		s.id = id
	}
}

// New creates a new local source reading path.
func New(path string, opts ...Option) *Source {
	s := &Source{path: path, id: "file:" + path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID implements sources.Source.
func (s *Source) ID() string { return s.id }

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) ([]catalogs.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapSource(s.id, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.WrapSource(s.id, errors.WrapIO("read", s.path, err))
	}

	items, err := Decode(FormatFor(s.path), data)
	if err != nil {
		return nil, errors.WrapSource(s.id, errors.WrapParse(FormatFor(s.path), s.path, err))
	}

	logging.FromContext(ctx).Debug().
		Str("source", s.id).
		Int("items", len(items)).
		Msg("Loaded catalog file")
	return items, nil
}

// FormatFor picks "yaml" for a .yaml or .yml path and "json" otherwise.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Decode parses a catalog document in the given format. The document is
// either a list of items or an object with an "items" list.
func Decode(format string, data []byte) ([]catalogs.Item, error) {
	unmarshal := json.Unmarshal
	if format == "yaml" {
		unmarshal = yaml.Unmarshal
	}

	var list []catalogs.Item
	if err := unmarshal(data, &list); err == nil {
		return catalogs.Dedupe(list), nil
	}

	var doc struct {
		Items []catalogs.Item `json:"items" yaml:"items"`
	}
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return catalogs.Dedupe(doc.Items), nil
}
