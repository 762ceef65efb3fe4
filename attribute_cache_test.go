package mtimesort_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtimesort "github.com/krisalay/mtime-sort"
	"github.com/krisalay/mtime-sort/engine"
	"github.com/krisalay/mtime-sort/memsource"
	"github.com/krisalay/mtime-sort/types"
)

//
// ================= HELPER: CREATE CACHE =================
//

func newTestCache(src *memsource.Source, timeout time.Duration) (*mtimesort.AttributeCache, *types.Counters) {
	metrics := &types.Counters{}
	eng := engine.NewEngine(src, timeout, metrics, nil)
	return mtimesort.NewAttributeCache(4, eng), metrics
}

//
// ================= BASIC OPERATIONS =================
//

func TestGetOrComputeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	src := memsource.New(0)
	c, metrics := newTestCache(src, time.Second)

	it := memsource.NewItem("a", time.Unix(100, 0))

	for i := 0; i < 5; i++ {
		ts, ok := c.GetOrCompute(ctx, it)
		require.True(t, ok)
		assert.True(t, time.Unix(100, 0).Equal(ts))
	}

	assert.Equal(t, 1, src.QueriesFor(it.ID))
	stats := metrics.Snapshot()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(4), stats.Hits)
}

func TestEntriesAreNotRefreshed(t *testing.T) {
	ctx := context.Background()
	src := memsource.New(0)
	c, _ := newTestCache(src, time.Second)

	it := memsource.NewItem("a", time.Unix(100, 0))
	c.GetOrCompute(ctx, it)

	it.Touch(time.Unix(999, 0))
	ts, ok := c.GetOrCompute(ctx, it)
	require.True(t, ok)
	assert.True(t, time.Unix(100, 0).Equal(ts), "cached value survives a change at the source")
}

func TestFailureIsCachedAsAbsence(t *testing.T) {
	ctx := context.Background()
	src := memsource.New(0)
	c, _ := newTestCache(src, time.Second)

	it := memsource.NewItem("broken", time.Unix(1, 0))
	it.Broken = true

	_, ok := c.GetOrCompute(ctx, it)
	assert.False(t, ok)
	_, ok = c.GetOrCompute(ctx, it)
	assert.False(t, ok)

	assert.Equal(t, 1, src.QueriesFor(it.ID))

	ent, found := c.Lookup(it.ID)
	require.True(t, found)
	assert.False(t, ent.Resolved)
}

func TestTimeoutIsCachedAsAbsence(t *testing.T) {
	ctx := context.Background()
	src := memsource.New(200 * time.Millisecond)
	c, metrics := newTestCache(src, 5*time.Millisecond)

	it := memsource.NewItem("slow", time.Unix(1, 0))

	_, ok := c.GetOrCompute(ctx, it)
	assert.False(t, ok)
	_, ok = c.GetOrCompute(ctx, it)
	assert.False(t, ok)

	assert.Equal(t, 1, src.QueriesFor(it.ID))
	assert.Equal(t, int64(1), metrics.Snapshot().Unresolved)
}

func TestCancelledCallerDoesNotPoisonEntry(t *testing.T) {
	src := memsource.New(0)
	c, _ := newTestCache(src, time.Second)
	it := memsource.NewItem("a", time.Unix(100, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := c.GetOrCompute(ctx, it)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	ts, ok := c.GetOrCompute(context.Background(), it)
	require.True(t, ok)
	assert.True(t, time.Unix(100, 0).Equal(ts))
	assert.Equal(t, 1, c.Len())
}

func TestLookupDoesNotQuery(t *testing.T) {
	src := memsource.New(0)
	c, _ := newTestCache(src, time.Second)

	it := memsource.NewItem("a", time.Unix(1, 0))
	_, ok := c.Lookup(it.ID)
	assert.False(t, ok)
	assert.Equal(t, int64(0), src.Queries())
}

func TestClearReleasesEverything(t *testing.T) {
	ctx := context.Background()
	src := memsource.New(0)
	c, metrics := newTestCache(src, time.Second)

	a := memsource.NewItem("a", time.Unix(1, 0))
	b := memsource.NewItem("b", time.Unix(2, 0))
	c.GetOrCompute(ctx, a)
	c.GetOrCompute(ctx, b)
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(2), metrics.Snapshot().Cleared)

	// Clearing twice is harmless.
	c.Clear()
	assert.Equal(t, int64(2), metrics.Snapshot().Cleared)

	c.GetOrCompute(ctx, a)
	assert.Equal(t, 2, src.QueriesFor(a.ID), "a cleared cache queries again")
}

//
// ================= CONCURRENCY TEST =================
//

func TestConcurrentMissesShareOneQuery(t *testing.T) {
	ctx := context.Background()
	src := memsource.New(20 * time.Millisecond)
	c, _ := newTestCache(src, time.Second)

	it := memsource.NewItem("hot", time.Unix(42, 0))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ts, ok := c.GetOrCompute(ctx, it)
			if !ok || !ts.Equal(time.Unix(42, 0)) {
				t.Errorf("expected 42, got %v (ok=%v)", ts, ok)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, src.QueriesFor(it.ID))
	assert.Equal(t, 1, c.Len())
}
