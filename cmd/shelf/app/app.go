// Package app provides the application context and dependency management
// for the shelf CLI. It centralizes configuration, logging and the lifecycle
// of the overlay client.
package app

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf"
	"github.com/agentstation/shelf/internal/sources/httpsrc"
	"github.com/agentstation/shelf/internal/sources/local"
	"github.com/agentstation/shelf/internal/transport"
	"github.com/agentstation/shelf/internal/writers/httpwriter"
	"github.com/agentstation/shelf/internal/writers/queuewriter"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/overlay"
	"github.com/agentstation/shelf/pkg/sources"
	"github.com/agentstation/shelf/pkg/writequeue"
)

// App represents the shelf application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	out    io.Writer

	// Client instance (lazy-initialized, singleton)
	mu      sync.Mutex
	client  shelf.Client
	backend io.Closer
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		out:     os.Stdout,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the overlay client, creating it lazily if needed.
func (a *App) Client(ctx context.Context) (shelf.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	opts, closer, err := a.buildClientOptions(ctx)
	if err != nil {
		return nil, err
	}
	client, err := shelf.New(opts...)
	if err != nil {
		_ = closer.Close()
		return nil, errors.WrapResource("create", "client", a.config.Area, err)
	}

	a.client = client
	a.backend = closer
	return client, nil
}

// Load returns the client after one reload attempt. A failed reload is
// logged and the last known overlay is served.
func (a *App) Load(ctx context.Context) (shelf.Client, error) {
	client, err := a.Client(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := client.Reload(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("Catalog unavailable, showing the last known overlay")
	}
	return client, nil
}

// Shutdown closes the client, flushing pending remote writes, and releases
// the overlay backend.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	client, backend := a.client, a.backend
	a.client, a.backend = nil, nil
	a.mu.Unlock()

	var err error
	if client != nil {
		err = client.Close(ctx)
	}
	if backend != nil {
		if cerr := backend.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// buildClientOptions constructs client options from the app configuration.
func (a *App) buildClientOptions(ctx context.Context) ([]shelf.Option, io.Closer, error) {
	src, err := a.buildSource()
	if err != nil {
		return nil, nil, err
	}
	writer, err := a.buildWriter()
	if err != nil {
		return nil, nil, err
	}

	codec := overlay.Codec(overlay.JSONCodec{})
	if strings.EqualFold(a.config.Codec, "yaml") {
		codec = overlay.YAMLCodec{}
	}

	var (
		backend overlay.Backend
		closer  io.Closer = nopCloser{}
	)
	if isFileBackend(a.config.Backend) {
		backend, err = shelf.OpenFileBackend(strings.TrimPrefix(a.config.Backend, "file://"), codec)
	} else {
		backend, closer, err = shelf.OpenBackend(ctx, a.config.Backend)
	}
	if err != nil {
		return nil, nil, err
	}

	opts := []shelf.Option{
		shelf.WithBackend(backend),
		shelf.WithCodec(codec),
		shelf.WithArea(a.config.Area),
		shelf.WithLogger(a.logger),
	}
	if a.config.CacheTTL > 0 {
		opts = append(opts, shelf.WithCachedSource(src, a.config.CacheTTL))
	} else {
		opts = append(opts, shelf.WithSource(src))
	}
	if writer != nil {
		opts = append(opts,
			shelf.WithWriter(writer),
			shelf.WithQueueSize(a.config.QueueSize),
			shelf.WithNotifier(a.notify),
		)
	}
	return opts, closer, nil
}

func (a *App) buildSource() (sources.Source, error) {
	switch {
	case a.config.Source == "":
		return nil, errors.NewConfigError("source", "no catalog source configured (set SHELF_SOURCE or --source)", nil)
	case isURL(a.config.Source):
		return httpsrc.New(a.config.Source, httpsrc.WithClient(a.transport())), nil
	default:
		return local.New(a.config.Source), nil
	}
}

func (a *App) buildWriter() (writequeue.Writer, error) {
	switch {
	case a.config.WriterURL != "":
		return httpwriter.New(a.config.WriterURL, a.transport()), nil
	case a.config.QueueConnection != "":
		w, err := queuewriter.New(a.config.QueueConnection, a.config.QueueName)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, nil
	}
}

func (a *App) transport() *transport.Client {
	return transport.New(transport.ParseAuth(a.config.SourceAuth), transport.WithAPIKey(a.config.APIKey))
}

// notify reports dropped remote writes; the local edit stays in place.
func (a *App) notify(n writequeue.Notification) {
	a.logger.Warn().
		Err(n.Err).
		Str("action", string(n.Action.Kind)).
		Str("item_id", string(n.Action.ItemID)).
		Msg("Remote write dropped")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isFileBackend(uri string) bool {
	return strings.HasPrefix(uri, "file://") || (uri != "" && !strings.Contains(uri, ":"))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput redirects command output, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(client shelf.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
