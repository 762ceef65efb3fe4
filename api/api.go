package api

import (
	"context"
	"time"

	"github.com/krisalay/mtime-sort/host"
	"github.com/krisalay/mtime-sort/types"
)

/*
Activatable is what a host holds for an extension that can be switched on and off.
The host never needs to know the concrete type behind it.
*/
type Activatable interface {

	/*
		Activate attaches the extension to a window.

		BEHAVIOR:
		---------
		- Returns types.ErrNilWindow for a nil window
		- Returns types.ErrAlreadyActive when already attached
		- Otherwise succeeds, even if the window has no collection yet
	*/
	Activate(ctx context.Context, w host.Window) error

	/*
		Deactivate detaches the extension and restores the window's baseline state.
		It is idempotent: deactivating a detached extension is safe.
	*/
	Deactivate()
}

/*
AttributeCache is the public contract of the modification-time cache.
Sharding, the fill-once guard and the query timeout are hidden behind it.
*/
type AttributeCache interface {

	/*
		GetOrCompute returns the modification time of an item.

		BEHAVIOR:
		---------
		1. Cached: return it; ok is false for a cached failure
		2. Not cached: query once, cache the outcome (failures included), return it

		Entries are never invalidated individually.
	*/
	GetOrCompute(ctx context.Context, item types.Item) (t time.Time, ok bool)

	// Lookup peeks at an entry without querying.
	Lookup(id types.Identity) (*types.CacheEntry, bool)

	// Len returns the number of cached entries.
	Len() int

	// Clear releases every entry. Safe on an empty cache.
	Clear()
}
