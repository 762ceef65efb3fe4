package ordering

import (
	"bytes"

	"github.com/krisalay/mtime-sort/types"
)

// FallbackPolicy orders items by their collation key, byte by byte.
// It never touches the attribute cache.
type FallbackPolicy struct {
	keys types.CollationSource
}

func NewFallbackPolicy(keys types.CollationSource) *FallbackPolicy {
	return &FallbackPolicy{keys: keys}
}

func (p *FallbackPolicy) Name() string { return "collation" }

func (p *FallbackPolicy) Compare(a, b types.Item) int {
	return bytes.Compare(p.keys.CollationKey(a), p.keys.CollationKey(b))
}
