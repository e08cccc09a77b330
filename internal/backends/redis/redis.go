// Package redis stores overlay blobs in Redis so several processes can share
// one area. Concurrent writers follow last-save-wins.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/agentstation/shelf/pkg/constants"
	shelferrors "github.com/agentstation/shelf/pkg/errors"
)

// Backend implements overlay.Backend on a Redis client.
type Backend struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Option configures a Redis backend.
type Option func(*Backend)

// WithPrefix sets the key prefix. Defaults to constants.RedisKeyPrefix.
func WithPrefix(prefix string) Option {
	return func(b *Backend) {
		b.prefix = prefix
	}
}

// WithTTL expires stored overlays after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// New wraps an existing client.
func New(client goredis.UniversalClient, opts ...Option) *Backend {
	b := &Backend{client: client, prefix: constants.RedisKeyPrefix}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open parses a redis:// URL, connects and pings the server.
func Open(ctx context.Context, url string, opts ...Option) (*Backend, error) {
	options, err := goredis.ParseURL(url)
	if err != nil {
		return nil, shelferrors.NewConfigError("redis", "invalid url", err)
	}
	client := goredis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, shelferrors.WrapResource("connect", "redis", options.Addr, err)
	}
	return New(client, opts...), nil
}

// Key returns the Redis key that holds an overlay key.
func (b *Backend) Key(key string) string {
	return b.prefix + key
}

// Get implements overlay.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.Key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, shelferrors.NewNotFoundError("overlay", key)
	}
	if err != nil {
		return nil, shelferrors.WrapResource("get", "redis", b.Key(key), err)
	}
	return data, nil
}

// Put implements overlay.Backend.
func (b *Backend) Put(ctx context.Context, key string, blob []byte) error {
	if err := b.client.Set(ctx, b.Key(key), blob, b.ttl).Err(); err != nil {
		return shelferrors.WrapResource("set", "redis", b.Key(key), err)
	}
	return nil
}

// Close closes the underlying client.
func (b *Backend) Close() error {
	return b.client.Close()
}
