// Package cache provides the caching layer used by the packing pipeline.
//
// Plans and rendered artifacts are cached between runs so re-rendering
// the same image set with the same configuration is instant. Three
// backends are provided:
//
//   - FileCache: directory-based cache for CLI usage
//   - RedisCache: shared cache for the HTTP packing service
//   - NullCache: no-op cache for tests and --no-cache runs
//
// Keys are derived by a [Keyer] from content hashes plus the options
// that influenced the cached value, so any configuration change misses
// cleanly instead of serving stale output.
package cache

import (
	"context"
	"time"
)

// TTLs for the different cached value classes. Plans depend only on
// their inputs and could live forever; finite TTLs keep cache
// directories from growing without bound.
const (
	TTLPlan     = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// PlanKeyOpts are the packing options that affect a cached plan.
type PlanKeyOpts struct {
	PageW        float64
	PageH        float64
	Margin       float64
	ScaleFloor   float64
	AllowUpscale bool
	Center       bool
}

// ArtifactKeyOpts are the render options that affect a cached artifact.
type ArtifactKeyOpts struct {
	Format      string
	JPEGQuality int
	Background  string
}

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// PlanKey generates a key for a packed document, from the hash of
	// the normalized rectangle list and the packing options.
	PlanKey(rectsHash string, opts PlanKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, from the
	// hash of the document it renders and the render options.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer derives keys by hashing the options together with the
// content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for a packed document.
func (k *DefaultKeyer) PlanKey(rectsHash string, opts PlanKeyOpts) string {
	return hashKey("plan", rectsHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
