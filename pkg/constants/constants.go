// Package constants provides shared constants used throughout the shelf codebase.
// This includes timeouts, limits, file permissions, and storage keys that
// should be consistent across the library and the CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to catalog and write endpoints
	DefaultHTTPTimeout = 30 * time.Second

	// ReloadContextTimeout is the timeout for each automatic catalog reload
	ReloadContextTimeout = 2 * time.Minute

	// DefaultReloadInterval is the default interval between automatic catalog reloads
	DefaultReloadInterval = 5 * time.Minute

	// RemoteWriteTimeout bounds a single best-effort remote write attempt
	RemoteWriteTimeout = 15 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// ShutdownTimeout bounds draining the write queue on close
	ShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultQueueSize is the default number of pending remote write actions
	DefaultQueueSize = 64

	// MaxItemNameLength is the maximum allowed length for a name override
	MaxItemNameLength = 256

	// MaxResponseBytes caps the size of a catalog payload read from a remote source
	MaxResponseBytes = 32 << 20
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached catalog fetches
	CacheTTL = 1 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Overlay constants
const (
	// DefaultArea is the overlay key used when no area is configured
	DefaultArea = "default"

	// OverlaySchemaVersion is the version tag written into every persisted overlay blob
	OverlaySchemaVersion = 1

	// RedisKeyPrefix namespaces overlay blobs stored in Redis
	RedisKeyPrefix = "shelf:overlay:"

	// PlaceholderNameFormat renders the fallback display name of an item with no name fields
	PlaceholderNameFormat = "Item %s"
)

// Path constants
const (
	// DefaultDataPath is the default directory for file-backed overlays
	DefaultDataPath = "~/.shelf"

	// DefaultConfigFile is the default configuration file name in the home directory
	DefaultConfigFile = ".shelf"

	// DefaultSQLiteFile is the default database file for the sqlite backend
	DefaultSQLiteFile = "overlay.db"
)
