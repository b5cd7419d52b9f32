// Package cache stores artifacts derived from authored navigation graphs:
// rendered exports (SVG, PNG, DOT) and planned routes. Keys are content
// addressed - they hash the authored graph together with the request
// options, so editing a graph naturally invalidates its entries.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-blob cache with optional per-entry TTL.
// Implementations: [FileCache] for CLI usage, [NullCache] to disable.
type Cache interface {
	// Get retrieves a value. The second return reports hit or miss;
	// expired entries are a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer builds cache keys for the derived-artifact kinds.
type Keyer interface {
	// RenderKey generates a key for a rendered graph export.
	RenderKey(graphHash string, opts RenderKeyOpts) string

	// RouteKey generates a key for a planned route.
	RouteKey(graphHash string, opts RouteKeyOpts) string
}

// RenderKeyOpts are the options that affect a rendered export.
type RenderKeyOpts struct {
	Format string // svg, png, dot
	Style  string
}

// RouteKeyOpts are the options that affect a planned route.
// Occupancy is runtime state and deliberately not part of the key; cached
// routes answer "what does the authored graph allow", not "what is free
// right now".
type RouteKeyOpts struct {
	Start    string
	End      string
	Fallback bool
}

// DefaultKeyer generates versioned, hash-based cache keys.
// Bump the version constants when the artifact encoding changes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey generates a key for a rendered graph export.
func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render:v1", graphHash, opts)
}

// RouteKey generates a key for a planned route.
func (k *DefaultKeyer) RouteKey(graphHash string, opts RouteKeyOpts) string {
	return hashKey("route:v1", graphHash, opts)
}

// keyType extracts the artifact kind from a generated key ("render",
// "route") for hook labels. Scope prefixes added by [ScopedKeyer] are
// skipped; unrecognizable keys report "unknown".
func keyType(key string) string {
	for _, kind := range strings.Split(key, ":") {
		switch kind {
		case "render", "route":
			return kind
		}
	}
	return "unknown"
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
