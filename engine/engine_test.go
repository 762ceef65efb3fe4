package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krisalay/mtime-sort/memsource"
	"github.com/krisalay/mtime-sort/types"
)

func TestResolveReturnsModificationTime(t *testing.T) {
	src := memsource.New(0)
	metrics := &types.Counters{}
	e := NewEngine(src, 0, metrics, nil)

	mtime := time.Unix(100, 0)
	it := memsource.NewItem("a", mtime)

	ent, cacheable := e.Resolve(context.Background(), it)
	assert.True(t, cacheable)
	assert.True(t, ent.Resolved)
	assert.True(t, mtime.Equal(ent.ModTime))
	assert.Equal(t, it.ID, ent.Identity)
	assert.False(t, ent.ResolvedAt.IsZero())
	assert.Equal(t, int64(1), metrics.Snapshot().Resolved)
}

func TestResolveFailuresAreUnresolved(t *testing.T) {
	src := memsource.New(0)
	metrics := &types.Counters{}
	e := NewEngine(src, 0, metrics, nil)

	noRes := memsource.NewItem("gone", time.Unix(1, 0))
	noRes.NoResource = true
	broken := memsource.NewItem("broken", time.Unix(1, 0))
	broken.Broken = true

	ent, cacheable := e.Resolve(context.Background(), noRes)
	assert.False(t, ent.Resolved)
	assert.True(t, cacheable)
	ent, cacheable = e.Resolve(context.Background(), broken)
	assert.False(t, ent.Resolved)
	assert.True(t, cacheable)

	// No query is issued when there is no resource to ask.
	assert.Equal(t, 0, src.QueriesFor(noRes.ID))
	assert.Equal(t, 1, src.QueriesFor(broken.ID))
	assert.Equal(t, int64(2), metrics.Snapshot().Unresolved)
}

func TestResolveTimeoutIsUnresolved(t *testing.T) {
	src := memsource.New(time.Second)
	e := NewEngine(src, 10*time.Millisecond, nil, nil)

	start := time.Now()
	ent, cacheable := e.Resolve(context.Background(), memsource.NewItem("slow", time.Unix(1, 0)))

	assert.False(t, ent.Resolved)
	assert.True(t, cacheable, "the per-query timeout is a cached failure")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestResolveWithEndedContextIsNotCacheable(t *testing.T) {
	metrics := &types.Counters{}
	e := NewEngine(memsource.New(0), time.Second, metrics, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ent, cacheable := e.Resolve(ctx, memsource.NewItem("a", time.Unix(1, 0)))
	assert.False(t, ent.Resolved)
	assert.False(t, cacheable)
	assert.Equal(t, int64(0), metrics.Snapshot().Unresolved)
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(memsource.New(0), -1, nil, nil)
	assert.Equal(t, DefaultQueryTimeout, e.Timeout)
	assert.IsType(t, types.NoopMetrics{}, e.Metrics)
	assert.NotNil(t, e.Logger)
}
