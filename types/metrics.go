package types

import "sync/atomic"

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when an identity is already cached (resolved or not).
	Hit()

	// Miss is called when an identity is not cached and must be queried.
	Miss()

	// Resolved is called when a query returns a modification time.
	Resolved()

	// Unresolved is called when a query fails or times out.
	Unresolved()

	// Cleared is called when the cache is dropped, with the number of entries released.
	Cleared(n int)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Callers that do not care about metrics still get a working cache
without nil checks on the hot comparator path.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Resolved()   {}
func (NoopMetrics) Unresolved() {}
func (NoopMetrics) Cleared(int) {}

// Counters is a Metrics implementation backed by atomic counters.
// It is safe to share between comparators running in parallel.
type Counters struct {
	hits       atomic.Int64
	misses     atomic.Int64
	resolved   atomic.Int64
	unresolved atomic.Int64
	cleared    atomic.Int64
}

func (c *Counters) Hit()          { c.hits.Add(1) }
func (c *Counters) Miss()         { c.misses.Add(1) }
func (c *Counters) Resolved()     { c.resolved.Add(1) }
func (c *Counters) Unresolved()   { c.unresolved.Add(1) }
func (c *Counters) Cleared(n int) { c.cleared.Add(int64(n)) }

// Stats is a point-in-time copy of Counters.
type Stats struct {
	Hits       int64
	Misses     int64
	Resolved   int64
	Unresolved int64
	Cleared    int64
}

// Queries is the number of resource queries issued.
func (s Stats) Queries() int64 {
	return s.Resolved + s.Unresolved
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Stats {
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Resolved:   c.resolved.Load(),
		Unresolved: c.unresolved.Load(),
		Cleared:    c.cleared.Load(),
	}
}
