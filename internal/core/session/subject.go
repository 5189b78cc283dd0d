package session

import "sync"

// Subject is a replay-latest stream: every new subscriber immediately
// receives the current value on its channel, then each subsequent update.
// The stream never completes on its own; subscribers leave by calling the
// cancel function returned from Subscribe.
//
// Subscriber channels hold a single buffered slot and updates conflate: a
// subscriber that has not drained yet observes only the latest value. That
// matches the consumers here — the route guard takes exactly one value per
// decision and UI readers only care about the newest state.
type Subject[T any] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   map[int]chan T
}

// NewSubject creates a subject seeded with an initial value.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial, subs: make(map[int]chan T)}
}

// Value returns a synchronous snapshot of the latest value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Next stores v as the latest value and broadcasts it to all subscribers.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	for _, ch := range s.subs {
		send(ch, v)
	}
}

// Subscribe registers a new subscriber. The returned channel already carries
// the latest value. The cancel function unregisters the subscriber and closes
// its channel; it is safe to call more than once.
func (s *Subject[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan T, 1)
	ch <- s.value
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// send delivers v without blocking, dropping the stale buffered value first
// when the subscriber has not drained it.
func send[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}
