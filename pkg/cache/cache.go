// Package cache provides the compiled-document cache for paneforge.
//
// Rebuilding a document is cheap but not free (two file reads, tree
// construction, emission, substitution); the preview server rebuilds on every
// request, so repeated builds of unchanged inputs are served from cache. Keys
// are derived from content hashes of the template and layout plus the options
// that affect the output, so any input change is a clean miss.
//
// # Backends
//
//   - file: JSON entries under a cache directory (default for the CLI)
//   - redis: shared cache for multi-instance deployments
//   - mongo: TTL-indexed collection, for deployments already carrying MongoDB
//   - null: no-op, used with --no-cache
//
// All backends implement the same Cache interface and are selected through
// project configuration.
package cache

import (
	"context"
	"time"
)

// TTLDocument is how long compiled documents stay cached.
const TTLDocument = 24 * time.Hour

// Cache is the interface all storage backends implement.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DocumentKeyOpts carries the build options that change the compiled output
// and therefore participate in the cache key.
type DocumentKeyOpts struct {
	Stylesheets   []string          `json:"stylesheets"`
	Scripts       []string          `json:"scripts"`
	Substitutions map[string]string `json:"substitutions,omitempty"`
}

// Keyer generates cache keys. The default implementation hashes its inputs;
// wrap it with a ScopedKeyer for per-project namespacing.
type Keyer interface {
	// DocumentKey generates a key for a compiled document, from content
	// hashes of the template and layout files plus the build options.
	DocumentKey(templateHash, layoutHash string, opts DocumentKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key of the form "doc:<sha256>".
func (k *DefaultKeyer) DocumentKey(templateHash, layoutHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", templateHash, layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces when
// one backend serves several projects.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(templateHash, layoutHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(templateHash, layoutHash, opts)
}
