package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/krisalay/mtime-sort/types"
)

// DefaultQueryTimeout bounds a single modification-time query when none is configured.
const DefaultQueryTimeout = 2 * time.Second

/*
Engine is the "brain" of the attribute cache.
It is responsible for the "behavior" of the cache, NOT storage.

It decides:
- Which identity an item is cached under
- How the modification time is queried on a miss
- How long a query may take before it counts as unresolved
- How outcomes are recorded in metrics and logs

It does NOT:
- Store entries
- Handle sharding
- Handle locking
- Compare items
*/
type Engine struct {

	// Source is how the cache talks to the outside world when it does NOT have the entry.
	Source types.IdentitySource

	// Timeout bounds every ModificationTime call. Expiry is cached as unresolved.
	Timeout time.Duration

	// Metrics keeps track of hits, misses and query outcomes.
	Metrics types.Metrics

	Logger *slog.Logger

	// now is swapped in tests.
	now func() time.Time
}

/*
NewEngine creates an Engine.
A timeout <= 0 means DefaultQueryTimeout; nil metrics and logger get no-op and default values.
*/
func NewEngine(
	source types.IdentitySource,
	timeout time.Duration,
	metrics types.Metrics,
	logger *slog.Logger,
) *Engine {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		Source:  source,
		Timeout: timeout,
		Metrics: metrics,
		Logger:  logger.With("component", "engine"),
		now:     time.Now,
	}
}

// Identity returns the cache key of an item.
func (e *Engine) Identity(item types.Item) types.Identity {
	return e.Source.Identity(item)
}

/*
Resolve runs the expensive query for one item and turns the outcome into an entry.

BEHAVIOR:
---------
- Never returns an error: a failure is an entry with Resolved == false
- The query is bounded by Timeout on top of whatever deadline ctx already has
- cacheable is false when ctx itself ended during the query; the absence is
  only for this caller and a later lookup should query again
*/
func (e *Engine) Resolve(ctx context.Context, item types.Item) (ent *types.CacheEntry, cacheable bool) {
	id := e.Source.Identity(item)
	ent = &types.CacheEntry{Identity: id}

	res, err := e.Source.BackingResource(item)
	if err != nil {
		e.unresolved(ent, err)
		return ent, true
	}

	qctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	mtime, err := e.Source.ModificationTime(qctx, res)
	if err == nil && qctx.Err() != nil {
		// Source ignored the deadline; its late answer still counts as expired.
		err = qctx.Err()
	}
	if err != nil {
		if ctx.Err() != nil {
			e.Logger.Debug("modification time query abandoned",
				slog.String("identity", string(id)),
				slog.String("error", ctx.Err().Error()))
			return ent, false
		}
		e.unresolved(ent, err)
		return ent, true
	}

	ent.ModTime = mtime
	ent.Resolved = true
	ent.ResolvedAt = e.now()
	e.Metrics.Resolved()
	return ent, true
}

func (e *Engine) unresolved(ent *types.CacheEntry, err error) {
	ent.ResolvedAt = e.now()
	e.Metrics.Unresolved()

	if errors.Is(err, context.DeadlineExceeded) {
		e.Logger.Warn("modification time query timed out",
			slog.String("identity", string(ent.Identity)),
			slog.Duration("timeout", e.Timeout))
		return
	}
	e.Logger.Debug("modification time unavailable",
		slog.String("identity", string(ent.Identity)),
		slog.String("error", err.Error()))
}
