package cache

// ScopedKeyer prefixes every key, so several engines can share one backend
// without reading each other's artifacts.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "instance:"+engine.ID()+":")
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

// FrameKey returns the prefixed frame key.
func (k *ScopedKeyer) FrameKey(frameHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(frameHash, opts)
}
