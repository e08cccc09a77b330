// Package file stores overlay blobs as files in a directory, one file per
// key. Writes go through a temporary file and a rename so a crash never
// leaves a half-written overlay behind.
package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
)

// Backend implements overlay.Backend on the local filesystem.
type Backend struct {
	dir string
	ext string
}

// Option configures a file backend.
type Option func(*Backend)

// WithExtension sets the file extension used for blobs, e.g. ".yaml".
func WithExtension(ext string) Option {
	return func(b *Backend) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		b.ext = ext
	}
}

// New creates a backend rooted at dir. The directory is created on first write.
func New(dir string, opts ...Option) *Backend {
	b := &Backend{dir: dir, ext: ".json"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the file that holds key.
func (b *Backend) Path(key string) string {
	return filepath.Join(b.dir, sanitize(key)+b.ext)
}

// Get implements overlay.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := b.Path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("overlay", key)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return data, nil
}

// Put implements overlay.Backend.
func (b *Backend) Put(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", b.dir, err)
	}

	path := b.Path(key)
	if err := atomic.WriteFile(path, bytes.NewReader(blob)); err != nil {
		return errors.WrapIO("write", path, err)
	}
	// atomic.WriteFile keeps the temp file's mode on new files.
	if err := os.Chmod(path, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	return nil
}

// sanitize maps a key onto a safe file name.
func sanitize(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return constants.DefaultArea
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
