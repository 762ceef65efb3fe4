package types

import "time"

// CacheEntry is the resolved modification time of one item.
// Resolved == false is a cached absence: the query ran and failed or timed out.
type CacheEntry struct {
	Identity   Identity
	ModTime    time.Time
	Resolved   bool
	ResolvedAt time.Time
}
