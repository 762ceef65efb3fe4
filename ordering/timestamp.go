package ordering

import (
	"time"

	"github.com/krisalay/mtime-sort/types"
)

// TimeLookup returns the modification time of an item; ok is false when it is unknown.
type TimeLookup func(item types.Item) (t time.Time, ok bool)

/*
TimestampPolicy orders items by modification time, oldest first.

BEHAVIOR:
---------
- Both times known: chronological comparison, equal times compare equal
- Either time unknown: the fallback policy decides

Comparators have no error channel, so every failure ends in the fallback.
*/
type TimestampPolicy struct {
	lookup   TimeLookup
	fallback *FallbackPolicy
}

func NewTimestampPolicy(lookup TimeLookup, fallback *FallbackPolicy) *TimestampPolicy {
	return &TimestampPolicy{lookup: lookup, fallback: fallback}
}

func (p *TimestampPolicy) Name() string { return "mtime" }

func (p *TimestampPolicy) Compare(a, b types.Item) int {
	ta, okA := p.lookup(a)
	tb, okB := p.lookup(b)

	if okA && okB {
		return ta.Compare(tb)
	}
	return p.fallback.Compare(a, b)
}
