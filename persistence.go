package shelf

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/shelf/internal/backends/file"
	"github.com/agentstation/shelf/internal/backends/redis"
	"github.com/agentstation/shelf/internal/backends/sqlite"
	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/overlay"
)

// OpenBackend opens the overlay backend named by uri:
//
//	memory:                    process memory, lost on exit
//	file://<dir>  or  <dir>    one JSON file per area in dir
//	sqlite://<path>            a SQLite database, overlay.db when path is a directory
//	redis://... rediss://...   a Redis server, shared between processes
//
// A leading "~" is expanded to the home directory. The returned closer must
// be closed when the backend is no longer needed.
func OpenBackend(ctx context.Context, uri string) (overlay.Backend, io.Closer, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "" || uri == "memory:":
		return overlay.NewMemoryBackend(), nopCloser{}, nil

	case strings.HasPrefix(uri, "redis://"), strings.HasPrefix(uri, "rediss://"):
		b, err := redis.Open(ctx, uri)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	case strings.HasPrefix(uri, "sqlite://"):
		path, err := expandHome(strings.TrimPrefix(uri, "sqlite://"))
		if err != nil {
			return nil, nil, err
		}
		if path == "" || strings.HasSuffix(path, "/") {
			path = filepath.Join(path, constants.DefaultSQLiteFile)
		}
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, nil, errors.WrapIO("create", filepath.Dir(path), err)
		}
		b, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	default:
		dir, err := expandHome(strings.TrimPrefix(uri, "file://"))
		if err != nil {
			return nil, nil, err
		}
		return file.New(dir), nopCloser{}, nil
	}
}

// OpenFileBackend stores overlays in dir, encoding them with codec. The file
// extension follows the codec.
func OpenFileBackend(dir string, codec overlay.Codec) (overlay.Backend, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	return file.New(dir, file.WithExtension(codec.Name())), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("backend", "cannot resolve home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
