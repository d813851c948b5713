package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// EnvironmentKey generates a prefixed environment key.
func (k *ScopedKeyer) EnvironmentKey(inputHash string, opts EnvironmentKeyOpts) string {
	return k.prefix + k.inner.EnvironmentKey(inputHash, opts)
}

// PipKey generates a prefixed pip list key.
func (k *ScopedKeyer) PipKey(inputHash string, platforms []string) string {
	return k.prefix + k.inner.PipKey(inputHash, platforms)
}
