package mtimesort

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/krisalay/mtime-sort/engine"
	"github.com/krisalay/mtime-sort/host"
	"github.com/krisalay/mtime-sort/ordering"
	"github.com/krisalay/mtime-sort/types"
)

// DefaultShards is the shard count used when Options.Shards is not set.
const DefaultShards = 16

// Options configures a Sorter. Zero values pick defaults.
type Options struct {
	// Shards is the number of attribute cache shards.
	Shards int

	// QueryTimeout bounds one modification-time query.
	QueryTimeout time.Duration

	Metrics types.Metrics
	Logger  *slog.Logger
}

/*
Sorter orders a host window's collection by modification time while it is active.

States:
  - detached: no cache, no subscription, nothing installed
  - attached: a fresh cache, the timestamp policy on the current collection and on
    every collection the window binds later

Deactivate puts the collation order back and drops the cache. A later Activate
starts over with an empty cache.
*/
type Sorter struct {
	mu sync.Mutex

	engine   *engine.Engine
	shards   int
	fallback *ordering.FallbackPolicy
	logger   *slog.Logger

	window host.Window
	sub    host.Subscription
	cache  *AttributeCache
	policy *ordering.TimestampPolicy
}

// NewSorter creates a detached sorter reading items through source.
func NewSorter(source types.IdentitySource, opts Options) *Sorter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	shards := opts.Shards
	if shards <= 0 {
		shards = DefaultShards
	}

	return &Sorter{
		engine:   engine.NewEngine(source, opts.QueryTimeout, opts.Metrics, logger),
		shards:   shards,
		fallback: ordering.NewFallbackPolicy(source),
		logger:   logger.With("component", "sorter"),
	}
}

/*
Activate attaches the sorter to a window.

BEHAVIOR:
---------
- Creates a fresh attribute cache for this session
- Installs the timestamp policy on the current collection, if there is one
- Subscribes to collection-bound notifications so replacements get it too
- A window without a collection is fine; installation waits for the first bind

ctx is used by every query the installed comparator issues while attached.
*/
func (s *Sorter) Activate(ctx context.Context, w host.Window) error {
	if w == nil {
		return types.ErrNilWindow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window != nil {
		return types.ErrAlreadyActive
	}

	cache := NewAttributeCache(s.shards, s.engine)
	s.cache = cache
	s.policy = ordering.NewTimestampPolicy(func(item types.Item) (time.Time, bool) {
		return cache.GetOrCompute(ctx, item)
	}, s.fallback)
	s.window = w
	s.sub = w.OnCollectionBound(s.collectionBound)

	if c := w.Collection(); c != nil {
		c.SetComparator(ordering.ComparatorOf(s.policy))
		s.logger.Info("sorter activated", slog.Bool("collection", true))
	} else {
		s.logger.Info("sorter activated, waiting for collection", slog.Bool("collection", false))
	}
	return nil
}

/*
Deactivate detaches the sorter.

BEHAVIOR:
---------
- Unsubscribes from the window
- Installs the collation policy on the current collection, if there is one
- Drops the attribute cache

Deactivating a detached sorter does nothing.
*/
func (s *Sorter) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window == nil {
		return
	}

	s.sub.Unsubscribe()

	if c := s.window.Collection(); c != nil {
		c.SetComparator(ordering.ComparatorOf(s.fallback))
	}

	entries := s.cache.Len()
	s.cache.Clear()

	s.window = nil
	s.sub = nil
	s.cache = nil
	s.policy = nil

	s.logger.Info("sorter deactivated", slog.Int("released", entries))
}

// collectionBound runs when the window binds a new collection.
// It holds s.mu while installing so a concurrent Deactivate cannot be overtaken.
func (s *Sorter) collectionBound(c host.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deactivated between the window's snapshot and this call.
	if s.policy == nil || c == nil {
		return
	}

	s.logger.Debug("collection bound, installing mtime order")
	c.SetComparator(ordering.ComparatorOf(s.policy))
}

// Active reports whether the sorter is attached.
func (s *Sorter) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window != nil
}

// CacheLen returns the number of cached entries in the current session (0 when detached).
func (s *Sorter) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

// Lookup returns the cached entry for id in the current session without querying.
func (s *Sorter) Lookup(id types.Identity) (*types.CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Lookup(id)
}

// Fallback returns the collation policy installed on deactivation.
func (s *Sorter) Fallback() ordering.Policy {
	return s.fallback
}
