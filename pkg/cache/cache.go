// Package cache stores adjustment-set results and rendered artifacts keyed
// by content hash.
//
// The CLI uses a [FileCache] under the XDG cache directory; [NullCache]
// disables caching. Keys come from a [Keyer] so that everything that
// changes an artifact (table content, format, engine, theme) changes its
// key:
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(tableJSON), cache.ArtifactKeyOpts{Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// AnalysisKey names the adjustment sets of a graph document.
	AnalysisKey(graphHash string, opts AnalysisKeyOpts) string
	// ArtifactKey names a rendered artifact of a tidy table.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// AnalysisKeyOpts holds the settings that change an adjustment-set search.
type AnalysisKeyOpts struct {
	Exposure string `json:"exposure"`
	Outcome  string `json:"outcome"`
	Type     string `json:"type"`
	MaxSize  int    `json:"max_size"`
}

// ArtifactKeyOpts holds the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Engine string  `json:"engine"`
	Theme  any     `json:"theme"`
	Pinned bool    `json:"pinned"`
	Set    string  `json:"set"`
	Scale  float64 `json:"scale"`
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey implements Keyer.
func (DefaultKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", tableHash, opts)
}
