package cache

// ScopedKeyer prefixes every key of an inner Keyer. The service uses it to
// keep API results apart from CLI results when both share one Redis.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// StatsKey returns the prefixed statistics key.
func (k *ScopedKeyer) StatsKey(inputHash string) string {
	return k.prefix + k.inner.StatsKey(inputHash)
}

// OutputKey returns the prefixed output key.
func (k *ScopedKeyer) OutputKey(inputHash string, opts OutputKeyOpts) string {
	return k.prefix + k.inner.OutputKey(inputHash, opts)
}

// RenderKey returns the prefixed render key.
func (k *ScopedKeyer) RenderKey(inputHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(inputHash, opts)
}
