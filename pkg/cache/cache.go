// Package cache stores rendered exports so that identical requests skip the
// raster pass.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry holding an expiry header and the raw
//     bytes, for the CLI
//   - [RedisCache]: shared cache for the HTTP API
//
// # Keys
//
// A [Keyer] derives keys from content hashes: the base image pixels, the
// serialized document, the ink bitmap and the output options. Two exports
// share a key only when all of these match. [ScopedKeyer] prefixes keys to
// give deployments their own namespace.
//
// [Instrument] wraps any backend so that hits, misses and writes are reported
// through the observability hooks.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/memegen/pkg/observability"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ExportKey is the key of a full-resolution encoded export.
	ExportKey(opts ExportKeyOpts) string

	// PreviewKey is the key of a scaled preview.
	PreviewKey(opts PreviewKeyOpts) string
}

// ExportKeyOpts identifies an export.
type ExportKeyOpts struct {
	BaseHash     string `json:"base"`
	DocumentHash string `json:"doc"`
	InkHash      string `json:"ink,omitempty"`
	DrawingAbove bool   `json:"above"`
	Format       string `json:"format"`
	Quality      int    `json:"quality,omitempty"`
}

// PreviewKeyOpts identifies a preview.
type PreviewKeyOpts struct {
	BaseHash     string `json:"base"`
	DocumentHash string `json:"doc"`
	InkHash      string `json:"ink,omitempty"`
	DrawingAbove bool   `json:"above"`
	Mode         string `json:"mode"`
	Width        int    `json:"width"`
}

// DefaultKeyer hashes the options into "<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ExportKey implements [Keyer].
func (DefaultKeyer) ExportKey(opts ExportKeyOpts) string {
	return hashKey("export", opts)
}

// PreviewKey implements [Keyer].
func (DefaultKeyer) PreviewKey(opts PreviewKeyOpts) string {
	return hashKey("preview", opts)
}

// Instrument reports hits, misses and writes of c to the registered cache
// hooks under keyType.
func Instrument(c Cache, keyType string) Cache {
	return &instrumented{Cache: c, keyType: keyType}
}

type instrumented struct {
	Cache
	keyType string
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}
