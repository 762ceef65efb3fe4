package types

import (
	"context"
	"time"
)

// Item is one element of a host collection. The core never looks inside it.
type Item = any

// Identity is an opaque, comparison-stable handle for an item.
// It is only ever used as a cache key.
type Identity string

// Resource is whatever backs an item (a file path, a handle, a URL).
type Resource = any

// Comparator is a three-way comparison: negative if a sorts before b,
// zero if they are equal, positive otherwise.
type Comparator func(a, b Item) int

// CollationSource provides the fallback ordering key for an item.
type CollationSource interface {

	// CollationKey returns a key that orders items byte-wise.
	// It must be deterministic for the lifetime of the item.
	CollationKey(item Item) []byte
}

// IdentitySource is the contract between the cache and whatever owns the items.
type IdentitySource interface {
	CollationSource

	// Identity returns the cache key for an item.
	Identity(item Item) Identity

	/*
		BackingResource returns the object the modification time is read from.
		An error here means the item has nothing to query; the cache records
		it as unresolved.
	*/
	BackingResource(item Item) (Resource, error)

	/*
		ModificationTime is the expensive query.

		1. Cache checks memory → identity not found
		2. Cache calls BackingResource(item)
		3. Cache calls ModificationTime(ctx, resource) with a deadline
		4. Cache stores the result (or the failure) in memory
		5. Cache returns the value

		Implementations should honour ctx. Errors should wrap
		ErrResourceUnavailable when the resource cannot be read.
	*/
	ModificationTime(ctx context.Context, res Resource) (time.Time, error)
}
