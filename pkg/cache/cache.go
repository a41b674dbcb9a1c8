// Package cache stores rendered graph artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: never stores anything
//
// # Keys
//
// A [Keyer] derives keys from the hash of a document bundle plus the options
// that influence the output. Layouts are only cacheable when their seed is
// fixed, since unseeded layouts are random by design; callers check that
// before asking for a key.
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: "svg"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey generates a key for a solved layout of a bundle.
	LayoutKey(bundleHash string, opts LayoutKeyOpts) string
	// ArtifactKey generates a key for a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the solver inputs besides the bundle itself.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Focus      string  `json:"focus,omitempty"`
	Seed       uint64  `json:"seed"`
	Iterations int     `json:"iterations,omitempty"`
	Scope      string  `json:"scope,omitempty"` // e.g. "neighbourhood"
}

// ArtifactKeyOpts are the renderer inputs besides the layout.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Renderer string  `json:"renderer,omitempty"`
	Engine   string  `json:"engine,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Legend   bool    `json:"legend,omitempty"`
	Titles   bool    `json:"titles,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(bundleHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", bundleHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}
