package cache

// ScopedKeyer wraps a Keyer with a prefix so several graphs or sessions
// can share one cache directory without colliding.
//
// Example usage:
//
//	// Per-project keys when the CLI manages several graph files
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "proj:overworld:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed key for a rendered graph export.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}

// RouteKey generates a prefixed key for a planned route.
func (k *ScopedKeyer) RouteKey(graphHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(graphHash, opts)
}
