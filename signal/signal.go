package signal

import "sync"

// Signal is a single-threaded pub/sub cell holding one value of type T.
// Subscribing replays the last emitted value immediately, then the
// subscriber receives every subsequent Emit.
type Signal[T any] struct {
	mu        sync.Mutex
	value     T
	hasValue  bool
	observers []func(T)
}

// New returns a Signal with no value yet; the first subscriber sees
// nothing until the first Emit.
func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

// NewWithValue returns a Signal pre-seeded with an initial value, replayed
// to every subscriber until the next Emit.
func NewWithValue[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial, hasValue: true}
}

// Emit sets the current value and notifies every current subscriber, in
// subscription order.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	s.value = v
	s.hasValue = true
	observers := make([]func(T), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		if fn != nil {
			fn(v)
		}
	}
}

// Value returns the last emitted value and whether one has ever been
// emitted.
func (s *Signal[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.hasValue
}

// Subscribe registers fn and, if a value has already been emitted, calls
// it immediately with the current value (replay-on-subscribe). It returns
// an unsubscribe function.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	idx := len(s.observers) - 1
	current, has := s.value, s.hasValue
	s.mu.Unlock()

	if has {
		fn(current)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.observers) {
			s.observers[idx] = nil
		}
	}
}
