package mtimesort

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/krisalay/mtime-sort/engine"
	"github.com/krisalay/mtime-sort/shard"
	"github.com/krisalay/mtime-sort/types"
)

/*
AttributeCache maps item identities to their resolved modification time.
This struct is the orchestrator that connects:
- shards
- the engine (identity, query, timeout, metrics)
- the fill-once guard

Entries are never invalidated individually. The cache lives for one attachment
session and is dropped wholesale with Clear.
*/
type AttributeCache struct {
	// shards are the actual storage units.
	shards []*shard.Shard

	// engine contains the "rules" of the cache: identity, query, timeout, metrics.
	engine *engine.Engine

	// selector decides which shard an identity goes to.
	selector shard.Selector

	// sf prevents two comparators from querying the same identity at once.
	sf singleflight.Group
}

// NewAttributeCache creates a cache with the given number of shards (minimum 1).
func NewAttributeCache(shards int, engine *engine.Engine) *AttributeCache {
	if shards < 1 {
		shards = 1
	}

	s := make([]*shard.Shard, shards)
	for i := range s {
		s[i] = shard.NewShard()
	}

	return &AttributeCache{
		shards:   s,
		engine:   engine,
		selector: shard.HashSelector{},
	}
}

/*
GetOrCompute returns the modification time of an item.

BEHAVIOR:
---------
1. Identity cached: return it (ok == false for a cached failure)
2. Identity not cached: query the source once, cache the outcome, return it
3. ctx ended during the query: ok == false and nothing is cached

Two callers missing on the same identity share one query.
*/
func (c *AttributeCache) GetOrCompute(ctx context.Context, item types.Item) (time.Time, bool) {
	id := c.engine.Identity(item)
	sh := c.selector.Select(id, c.shards)

	if ent, ok := sh.Store.Get(id); ok {
		c.engine.Metrics.Hit()
		return ent.ModTime, ent.Resolved
	}

	c.engine.Metrics.Miss()

	v, _, _ := c.sf.Do(string(id), func() (any, error) {
		// A flight that finished between our Get and Do already stored the entry.
		if ent, ok := sh.Store.Get(id); ok {
			return ent, nil
		}

		ent, cacheable := c.engine.Resolve(ctx, item)
		if !cacheable {
			return ent, nil
		}

		sh.FillMu.Lock()
		sh.Store.Put(id, ent)
		sh.FillMu.Unlock()

		return ent, nil
	})

	ent := v.(*types.CacheEntry)
	return ent.ModTime, ent.Resolved
}

// Lookup returns the cached entry for an identity without querying anything.
func (c *AttributeCache) Lookup(id types.Identity) (*types.CacheEntry, bool) {
	return c.selector.Select(id, c.shards).Store.Get(id)
}

// Len returns the number of cached entries, resolved or not.
func (c *AttributeCache) Len() int {
	n := 0
	for _, sh := range c.shards {
		n += sh.Store.Size()
	}
	return n
}

// Clear releases every entry. Calling it on an empty cache is a no-op.
func (c *AttributeCache) Clear() {
	n := 0
	for _, sh := range c.shards {
		sh.FillMu.Lock()
		n += sh.Store.Clear()
		sh.FillMu.Unlock()
	}
	if n > 0 {
		c.engine.Metrics.Cleared(n)
	}
}
