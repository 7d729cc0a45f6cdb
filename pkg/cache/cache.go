// Package cache stores rendered frame artifacts.
//
// A cloud renders the same picture for as long as its tags, settings and
// orientation stay put, so SVG and PNG encodings are keyed by a hash of the
// projected frame and reused until the frame changes. Three backends are
// provided:
//
//   - [NullCache]: never stores anything
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared storage for multi-instance servers
//
// [Instrument] wraps any backend so hits, misses and writes reach the
// observability cache hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// FrameKeyOpts are the rendering options that change an artifact's bytes.
type FrameKeyOpts struct {
	Format      string  `json:"format"`
	Scale       float64 `json:"scale,omitempty"`
	Background  string  `json:"background,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// FrameKey keys one encoding of a projected frame.
	FrameKey(frameHash string, opts FrameKeyOpts) string
}

// DefaultKeyer hashes its inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey returns "frame:<sha256>".
func (DefaultKeyer) FrameKey(frameHash string, opts FrameKeyOpts) string {
	return scopedHash("frame", frameHash, opts)
}
