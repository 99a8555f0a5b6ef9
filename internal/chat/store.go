package chat

import (
	"slices"
	"sync"
	"time"
)

// Store is the ordered message timeline of one room session.
//
// Reads are safe from any goroutine. Writes are expected from a single goroutine;
// a Session funnels all of its writes through one apply loop.
type Store struct {
	mu       sync.RWMutex
	messages []Message
	subs     map[int]chan struct{}
	nextSub  int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan struct{})}
}

// Merge replaces the timeline with history sorted by timestamp, oldest first.
// Messages whose timestamp cannot be parsed sort before all others; ties keep
// their input order.
func (s *Store) Merge(history []Message) {
	type keyed struct {
		msg Message
		at  time.Time
		ok  bool
	}
	items := make([]keyed, len(history))
	for i, m := range history {
		at, ok := m.Time()
		items[i] = keyed{msg: m, at: at, ok: ok}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case !a.ok && !b.ok:
			return 0
		case !a.ok:
			return -1
		case !b.ok:
			return 1
		}
		return a.at.Compare(b.at)
	})

	sorted := make([]Message, len(items))
	for i, it := range items {
		sorted[i] = it.msg
	}

	s.mu.Lock()
	s.messages = sorted
	s.mu.Unlock()
	s.notify()
}

// Append adds m at the end of the timeline regardless of its timestamp.
func (s *Store) Append(m Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	s.notify()
}

// Messages returns a copy of the timeline.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Subscribe returns a channel that receives a signal after every change. Signals
// coalesce: a slow reader sees one pending signal, then reads Messages. Call the
// returned function to unsubscribe.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
