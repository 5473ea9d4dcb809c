package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// It backs the second tier of the link-preview cache and the rendered
// preview cache. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss or an expired
	// entry returns (nil, false, nil); errors are reserved for backend
	// failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the values moodboard stores.
type Keyer interface {
	// MetadataKey returns the key for the link preview of url.
	MetadataKey(url string) string

	// RenderKey returns the key for a rendered preview of a DOT source.
	RenderKey(dot string, opts RenderKeyOpts) string
}

// RenderKeyOpts distinguishes renders of the same source.
type RenderKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard [Keyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// MetadataKey returns "og:" followed by the hash of url.
func (DefaultKeyer) MetadataKey(url string) string {
	return hashKey("og", url)
}

// RenderKey returns "render:" followed by the hash of the source and options.
func (DefaultKeyer) RenderKey(dot string, opts RenderKeyOpts) string {
	return hashKey("render", Hash([]byte(dot)), opts)
}
