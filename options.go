package shelf

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
	"github.com/agentstation/shelf/pkg/overlay"
	"github.com/agentstation/shelf/pkg/sources"
	"github.com/agentstation/shelf/pkg/writequeue"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the configuration of a client.
type options struct {
	source   sources.Source
	backend  overlay.Backend
	codec    overlay.Codec
	area     string
	writer   writequeue.Writer
	notifier writequeue.Notifier
	logger   *zerolog.Logger

	queueSize int

	autoReload         bool
	autoReloadInterval time.Duration
	reloadTimeout      time.Duration
}

func defaults() *options {
	return &options{
		backend:            overlay.NewMemoryBackend(),
		codec:              overlay.JSONCodec{},
		area:               constants.DefaultArea,
		logger:             logging.Default(),
		queueSize:          constants.DefaultQueueSize,
		autoReloadInterval: constants.DefaultReloadInterval,
		reloadTimeout:      constants.ReloadContextTimeout,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSource configures the remote catalog source. Required.
func WithSource(src sources.Source) Option {
	return func(o *options) error {
		o.source = src
		return nil
	}
}

// WithCachedSource wraps src so fetches within ttl reuse the last result.
func WithCachedSource(src sources.Source, ttl time.Duration) Option {
	return func(o *options) error {
		o.source = sources.NewCached(src, ttl)
		return nil
	}
}

// WithBackend configures where the overlay blob is stored. Defaults to memory.
func WithBackend(backend overlay.Backend) Option {
	return func(o *options) error {
		if backend == nil {
			return errors.NewValidationError("backend", nil, "backend cannot be nil")
		}
		o.backend = backend
		return nil
	}
}

// WithCodec configures the overlay blob encoding. Defaults to JSON.
func WithCodec(codec overlay.Codec) Option {
	return func(o *options) error {
		if codec == nil {
			return errors.NewValidationError("codec", nil, "codec cannot be nil")
		}
		o.codec = codec
		return nil
	}
}

// WithArea selects the overlay area, the key of the stored blob.
func WithArea(area string) Option {
	return func(o *options) error {
		if area == "" {
			return errors.NewValidationError("area", area, "area cannot be empty")
		}
		o.area = area
		return nil
	}
}

// WithWriter enables best-effort propagation of local additions and edits.
func WithWriter(w writequeue.Writer) Option {
	return func(o *options) error {
		o.writer = w
		return nil
	}
}

// WithNotifier receives a notification for every dropped remote write.
func WithNotifier(n writequeue.Notifier) Option {
	return func(o *options) error {
		o.notifier = n
		return nil
	}
}

// WithQueueSize sets how many remote writes may wait for delivery.
func WithQueueSize(size int) Option {
	return func(o *options) error {
		if size <= 0 {
			return errors.NewValidationError("queueSize", size, "queue size must be positive")
		}
		o.queueSize = size
		return nil
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// WithAutoReload configures whether the catalog is reloaded periodically.
func WithAutoReload(enabled bool) Option {
	return func(o *options) error {
		o.autoReload = enabled
		return nil
	}
}

// WithAutoReloadInterval configures how often the catalog is reloaded.
func WithAutoReloadInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoReloadInterval = interval
		return nil
	}
}

// WithReloadTimeout bounds each automatic reload.
func WithReloadTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout > 0 {
			o.reloadTimeout = timeout
		}
		return nil
	}
}
