package cache

// ScopedKeyer wraps a Keyer with a prefix so that values produced under
// different settings never share an entry. The command line scopes link
// preview keys by fetcher, since a proxy and a direct fetch can see
// different pages.
//
//	proxied := NewScopedKeyer(NewDefaultKeyer(), "proxy:")
//	direct := NewScopedKeyer(NewDefaultKeyer(), "direct:")
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

// MetadataKey generates a prefixed key for a link preview.
func (k *ScopedKeyer) MetadataKey(url string) string {
	return k.prefix + k.inner.MetadataKey(url)
}

// RenderKey generates a prefixed key for a rendered preview.
func (k *ScopedKeyer) RenderKey(dot string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(dot, opts)
}
