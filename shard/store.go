package shard

import (
	"sync"

	"github.com/krisalay/mtime-sort/types"
)

/*
This file defines how entries are stored inside a shard.

The first sort pass over a collection writes one entry per item, so fills are as
frequent as reads until the cache is warm. A plain map under a RWMutex keeps both
cheap; later passes only take the read lock.
*/

// ShardStore is the interface used by a shard to store and retrieve cache entries.
type ShardStore interface {

	// Get retrieves an entry by identity.
	Get(types.Identity) (*types.CacheEntry, bool)

	// Put inserts or replaces an entry.
	Put(types.Identity, *types.CacheEntry)

	// Clear drops every entry and returns how many there were.
	Clear() int

	// Size returns how many entries are stored.
	Size() int
}

type mapStore struct {
	mu   sync.RWMutex
	data map[types.Identity]*types.CacheEntry
}

func NewMapStore() *mapStore {
	return &mapStore{data: make(map[types.Identity]*types.CacheEntry)}
}

// Get retrieves an entry from the store.
func (s *mapStore) Get(id types.Identity) (*types.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.data[id]
	return ent, ok
}

// Put inserts or replaces an entry in the store.
func (s *mapStore) Put(id types.Identity, ent *types.CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = ent
}

/*
Clear releases the whole map at once instead of deleting keys one by one.
The old map becomes garbage as a unit, the same way the session that filled it ends.
*/
func (s *mapStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.data)
	s.data = make(map[types.Identity]*types.CacheEntry)
	return n
}

// Size returns how many entries are in the store.
func (s *mapStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
