// Package memsource is an in-memory identity source for synthetic items.
// It counts every modification-time query, which makes it useful for
// benchmarks and for checking how often the cache goes to the source.
package memsource

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/krisalay/mtime-sort/types"
)

// Item is a synthetic collection element.
type Item struct {
	ID   types.Identity
	Name string

	// NoResource makes BackingResource fail.
	NoResource bool
	// Broken makes ModificationTime fail.
	Broken bool

	mu      sync.Mutex
	modTime time.Time
}

// NewItem returns an item with a fresh random identity.
func NewItem(name string, modTime time.Time) *Item {
	return &Item{
		ID:      types.Identity(uuid.NewString()),
		Name:    name,
		modTime: modTime,
	}
}

// Touch changes the modification time the source will report from now on.
func (it *Item) Touch(t time.Time) {
	it.mu.Lock()
	it.modTime = t
	it.mu.Unlock()
}

func (it *Item) mtime() time.Time {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.modTime
}

// Source serves *Item values. The zero value is ready to use.
type Source struct {
	// Latency is slept inside every ModificationTime call.
	Latency time.Duration

	queries atomic.Int64
	mu      sync.Mutex
	perItem map[types.Identity]int
}

func New(latency time.Duration) *Source {
	return &Source{Latency: latency}
}

func (s *Source) Identity(item types.Item) types.Identity {
	return mustItem(item).ID
}

func (s *Source) CollationKey(item types.Item) []byte {
	return []byte(mustItem(item).Name)
}

func (s *Source) BackingResource(item types.Item) (types.Resource, error) {
	it := mustItem(item)
	if it.NoResource {
		return nil, fmt.Errorf("%w: %s has no backing resource", types.ErrResourceUnavailable, it.Name)
	}
	return it, nil
}

func (s *Source) ModificationTime(ctx context.Context, res types.Resource) (time.Time, error) {
	it := mustItem(res)
	s.count(it.ID)

	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		}
	}

	if it.Broken {
		return time.Time{}, fmt.Errorf("%w: %s: query failed", types.ErrResourceUnavailable, it.Name)
	}
	return it.mtime(), nil
}

// Queries is the total number of ModificationTime calls.
func (s *Source) Queries() int64 {
	return s.queries.Load()
}

// QueriesFor is the number of ModificationTime calls for one identity.
func (s *Source) QueriesFor(id types.Identity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perItem[id]
}

func (s *Source) count(id types.Identity) {
	s.queries.Add(1)
	s.mu.Lock()
	if s.perItem == nil {
		s.perItem = make(map[types.Identity]int)
	}
	s.perItem[id]++
	s.mu.Unlock()
}

func mustItem(v any) *Item {
	it, ok := v.(*Item)
	if !ok {
		panic(fmt.Sprintf("memsource: unexpected item type %T", v))
	}
	return it
}
