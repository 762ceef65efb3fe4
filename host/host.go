// Package host describes the window and collection a sorter plugs into,
// and ships simple in-memory implementations of both.
package host

import "github.com/krisalay/mtime-sort/types"

// Collection is a sortable, ordered set of items owned by the host.
type Collection interface {

	// SetComparator replaces the comparator used by every later sort.
	// nil restores the collection's builtin key order.
	SetComparator(cmp types.Comparator)
}

// Subscription is returned by an observer registration.
type Subscription interface {

	// Unsubscribe stops further notifications. It is safe to call more than once.
	Unsubscribe()
}

// Window owns at most one collection at a time and announces replacements.
type Window interface {

	// Collection returns the current collection, or nil if none is bound yet.
	Collection() Collection

	// OnCollectionBound registers fn to run every time a collection is bound.
	// fn runs on the goroutine that binds, outside any window lock.
	OnCollectionBound(fn func(Collection)) Subscription
}
