package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server uses it to keep its cache entries apart from CLI runs when
// both share one Redis instance.
//
// Example usage:
//
//	// Server-scoped keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
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

// TopologyKey generates a prefixed key for parsed-topology caching.
func (k *ScopedKeyer) TopologyKey(sourceHash string) string {
	return k.prefix + k.inner.TopologyKey(sourceHash)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(topologyHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(topologyHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
