package store

import "sync"

// Snapshot is a state together with the version it was published at.
type Snapshot[S any] struct {
	Version uint64
	State   S
}

// Store is a versioned state container. Apply serializes every transition, so
// two commands never write the state concurrently even when their remote calls
// overlap. Subscribers see every published version, in order.
//
// Subscribers run synchronously after the state is committed. They may call
// State, Version, Snapshot, Subscribe or their cancel func, but must not call
// Apply from inside the callback.
type Store[S any] struct {
	mu      sync.Mutex
	state   S
	version uint64
	nextSub int
	subs    []subscriber[S]

	// notifyMu serializes Apply calls from commit through delivery so
	// deliveries keep version order. It is always taken before mu.
	notifyMu sync.Mutex
}

// New returns a Store at version 0 holding initial.
func New[S any](initial S) *Store[S] {
	return &Store[S]{state: initial}
}

type subscriber[S any] struct {
	id int
	fn func(Snapshot[S])
}

// State returns the current state. Slices inside it are shared with the store
// and must be treated as read-only.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Version returns the number of transitions applied so far.
func (s *Store[S]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot returns the current state and its version atomically.
func (s *Store[S]) Snapshot() Snapshot[S] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[S]{Version: s.version, State: s.state}
}

// Apply runs transition on the current state, commits the result as a new
// version and notifies subscribers. The state lock is released before
// delivery, so subscribers may read the store or cancel themselves.
func (s *Store[S]) Apply(transition func(S) S) Snapshot[S] {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = transition(s.state)
	s.version++
	snap := Snapshot[S]{Version: s.version, State: s.state}
	subs := make([]subscriber[S], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
	return snap
}

// Subscribe registers fn for every future version. Subscribers are called in
// registration order. The returned cancel func is idempotent.
func (s *Store[S]) Subscribe(fn func(Snapshot[S])) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber[S]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
