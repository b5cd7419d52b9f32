// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about navigation, snapshot persistence, cache operations,
// and HTTP handling.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetNavHooks(&myNavHooks{})
//	    observability.SetStateHooks(&myStateHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Nav().OnPathComputed(from, to, len(path), cost)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Nav Hooks
// =============================================================================

// NavHooks receives events from the navigation core. Unlike the HTTP
// hooks these carry no context: they fire from per-frame logic calls.
type NavHooks interface {
	// OnPathComputed records a successful shortest-path search.
	OnPathComputed(from, to string, nodeCount int, cost float64)

	// OnMoveStart records a committed move request.
	OnMoveStart(actor int, node string, instant bool)

	// OnMoveComplete records an arrival.
	OnMoveComplete(actor int, node string)

	// OnMoveRejected records a dropped request. Reason is "occupied" or
	// "unreachable".
	OnMoveRejected(actor int, node, reason string)

	// OnOccupancyChanged records a node's occupant change (0 = cleared).
	OnOccupancyChanged(node string, actor int)
}

// =============================================================================
// State Hooks
// =============================================================================

// StateHooks receives events from snapshot save/load operations.
type StateHooks interface {
	// OnBeforeLoad fires before a restore begins mutating the graph.
	OnBeforeLoad()

	// OnSave records a snapshot write.
	OnSave(nodeCount, size int)

	// OnLoad records a completed restore, including skipped entries.
	OnLoad(nodeCount, skipped int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the debug server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopNavHooks is a no-op implementation of NavHooks.
type NoopNavHooks struct{}

func (NoopNavHooks) OnPathComputed(string, string, int, float64) {}
func (NoopNavHooks) OnMoveStart(int, string, bool)               {}
func (NoopNavHooks) OnMoveComplete(int, string)                  {}
func (NoopNavHooks) OnMoveRejected(int, string, string)          {}
func (NoopNavHooks) OnOccupancyChanged(string, int)              {}

// NoopStateHooks is a no-op implementation of StateHooks.
type NoopStateHooks struct{}

func (NoopStateHooks) OnBeforeLoad()   {}
func (NoopStateHooks) OnSave(int, int) {}
func (NoopStateHooks) OnLoad(int, int) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	navHooks   NavHooks   = NoopNavHooks{}
	stateHooks StateHooks = NoopStateHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetNavHooks registers custom navigation hooks.
// This should be called once at application startup before any graph operations.
func SetNavHooks(h NavHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		navHooks = h
	}
}

// SetStateHooks registers custom snapshot hooks.
// This should be called once at application startup before any save/load operations.
func SetStateHooks(h StateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stateHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Nav returns the registered navigation hooks.
func Nav() NavHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return navHooks
}

// State returns the registered snapshot hooks.
func State() StateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stateHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	navHooks = NoopNavHooks{}
	stateHooks = NoopStateHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
