// Package store is a small observable state holder. Watchers receive the
// current value immediately and then the latest value after each change;
// intermediate values may be skipped when a watcher is slow.
package store

import "sync"

type Store[S any] struct {
	mu       sync.RWMutex
	state    S
	watchers map[int]chan S
	nextID   int
	closed   bool
}

func New[S any](initial S) *Store[S] {
	return &Store[S]{
		state:    initial,
		watchers: make(map[int]chan S),
	}
}

func (s *Store[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store[S]) Set(state S) {
	s.Update(func(S) S { return state })
}

// Update replaces the state with fn(current) and notifies watchers.
// It is a no-op after Close.
func (s *Store[S]) Update(fn func(S) S) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.state = fn(s.state)
	for _, ch := range s.watchers {
		offer(ch, s.state)
	}
}

// Watch returns a channel of states and a cancel func. The channel is
// closed by cancel or by Close.
func (s *Store[S]) Watch() (<-chan S, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan S, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if w, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(w)
			}
		})
	}
}

func (s *Store[S]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
}

// offer replaces any unread value so the watcher always sees the latest.
func offer[S any](ch chan S, v S) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
