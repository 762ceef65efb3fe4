package shard

import (
	"hash/fnv"

	"github.com/krisalay/mtime-sort/types"
)

/*
Selector is the interface that decides which shard should handle a given identity.
The cache does not care HOW this decision is made. Different strategies can be plugged in.
*/
type Selector interface {
	Select(types.Identity, []*Shard) *Shard
}

// HashSelector spreads identities over shards by FNV-1a hash.
type HashSelector struct{}

// hash converts an identity into a number. FNV is a fast, non-cryptographic hash commonly used in systems like this.
func hash(id types.Identity) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()
}

// Select chooses the shard for a given identity.
func (HashSelector) Select(id types.Identity, shards []*Shard) *Shard {
	if len(shards) == 1 {
		return shards[0]
	}
	return shards[hash(id)%uint32(len(shards))]
}
