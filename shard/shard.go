package shard

import "sync"

/*
This file defines what a "Shard" is. A shard is a small, independent piece of the cache.
Instead of one map and one lock, identities are spread over several shards. Each shard:
- Holds some portion of the entries
- Has its own lock for fills

When comparators run in parallel, fills of unrelated identities do not contend.
*/
type Shard struct {

	// Store holds the identity → entry data for this shard.
	Store ShardStore

	// FillMu serializes writes to Store. Reads go through the store's own read lock.
	FillMu sync.Mutex
}

func NewShard() *Shard {
	return &Shard{Store: NewMapStore()}
}
