package cache

import "github.com/matzehuels/topo2graph/pkg/buildinfo"

// keyVersion is bumped whenever the output format changes so stale entries
// are never served. Output keys also hash the build version and commit, so
// an upgraded binary never reads entries written by an older one.
const keyVersion = "v1"

// OutputKeyOpts are the settings that change the translated bytes.
type OutputKeyOpts struct {
	Format string `json:"format"`
	Strict bool   `json:"strict"`
	Indent string `json:"indent"`
}

// Keyer builds cache keys.
type Keyer interface {
	// OutputKey returns the key for the output of an input whose content
	// hash is inputHash.
	OutputKey(inputHash string, opts OutputKeyOpts) string
}

// DefaultKeyer hashes the input hash and options together.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OutputKey implements Keyer.
func (DefaultKeyer) OutputKey(inputHash string, opts OutputKeyOpts) string {
	return hashKey("output:"+keyVersion, buildinfo.Version, buildinfo.Commit, inputHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so several callers can share one
// backend without sharing entries. The HTTP server uses it to keep API
// results apart from CLI results in a shared Redis.
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

// OutputKey implements Keyer.
func (k *ScopedKeyer) OutputKey(inputHash string, opts OutputKeyOpts) string {
	return k.prefix + k.inner.OutputKey(inputHash, opts)
}
