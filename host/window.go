package host

import "sync"

// BasicWindow is an in-memory Window.
// Bind swaps in a collection and notifies every live subscriber.
type BasicWindow struct {
	mu         sync.Mutex
	collection Collection
	nextID     uint64
	observers  map[uint64]func(Collection)
}

func NewBasicWindow() *BasicWindow {
	return &BasicWindow{observers: make(map[uint64]func(Collection))}
}

func (w *BasicWindow) Collection() Collection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.collection
}

/*
Bind makes c the current collection and notifies observers.

Observers are snapshotted under the lock and called after it is released, so an
observer may call back into the window (or unsubscribe) without deadlocking.
*/
func (w *BasicWindow) Bind(c Collection) {
	w.mu.Lock()
	w.collection = c
	fns := make([]func(Collection), 0, len(w.observers))
	for _, fn := range w.observers {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func (w *BasicWindow) OnCollectionBound(fn func(Collection)) Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.observers[id] = fn
	return &subscription{window: w, id: id}
}

// Observers returns the number of live registrations.
func (w *BasicWindow) Observers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.observers)
}

type subscription struct {
	window *BasicWindow
	id     uint64
	once   sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.window.mu.Lock()
		delete(s.window.observers, s.id)
		s.window.mu.Unlock()
	})
}
