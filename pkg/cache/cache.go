// Package cache stores solved stacks so repeated searches over the same input
// skip the exponential enumeration.
//
// Entries are opaque byte slices addressed by string keys. Keys are derived by
// a [Keyer] from the ordered box list and the options that influence the
// result, so two runs share an entry only when they would produce the same
// solution.
//
// Three backends are provided:
//   - [FileCache] for the CLI (one JSON file per entry under ~/.cache/boxtower)
//   - [RedisCache] for the HTTP server
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/boxtower/pkg/box"
)

// Default entry lifetimes.
const (
	// TTLSolution covers solved stacks. Solutions never go stale; the bound
	// only keeps the cache from growing without limit.
	TTLSolution = 7 * 24 * time.Hour

	// TTLArtifact covers rasterized renders (PNG, PDF).
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry reports
	// hit=false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SolutionKeyOpts holds the search options that change which stack wins.
// Worker count and box limits are deliberately absent: they never alter the
// result, only whether or how fast it is found.
type SolutionKeyOpts struct {
	MaxCorrections int `json:"max_corrections"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SolutionKey addresses a solved stack.
	SolutionKey(boxes []box.Box, opts SolutionKeyOpts) string

	// ArtifactKey addresses a rendered output of a solution.
	ArtifactKey(solutionKey, format string) string
}

// DefaultKeyer hashes its inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolutionKey hashes the ordered box list. Order is part of the key because
// ties between equally tall stacks are broken by input position.
func (DefaultKeyer) SolutionKey(boxes []box.Box, opts SolutionKeyOpts) string {
	dims := make([][3]float64, len(boxes))
	for i, b := range boxes {
		dims[i] = b.Dims()
	}
	return hashKey("solution", dims, opts)
}

// ArtifactKey combines a solution key with an output format.
func (DefaultKeyer) ArtifactKey(solutionKey, format string) string {
	return hashKey("artifact", solutionKey, format)
}

// ScopedKeyer prefixes every key produced by an inner Keyer, giving the
// server and the CLI separate namespaces on a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolutionKey returns the prefixed solution key.
func (k *ScopedKeyer) SolutionKey(boxes []box.Box, opts SolutionKeyOpts) string {
	return k.prefix + k.inner.SolutionKey(boxes, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(solutionKey, format string) string {
	return k.prefix + k.inner.ArtifactKey(solutionKey, format)
}
