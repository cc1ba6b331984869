package session

import "sync"

// Snapshot is a point-in-time view of a [Store].
type Snapshot[T any] struct {
	Value   T
	Present bool
	Version uint64
}

// Store is the single owner of the current value. Every Set or Clear
// replaces the whole value and is delivered to all live subscriptions.
//
// Store methods are safe for concurrent use.
type Store[T any] struct {
	mu      sync.RWMutex
	value   T
	present bool
	version uint64

	nextSub uint64
	subs    map[uint64]*Subscription[T]
}

// NewStore returns an empty Store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{subs: make(map[uint64]*Subscription[T])}
}

// Snapshot returns the current value, presence and version.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Value returns the current value and whether one is present.
func (s *Store[T]) Value() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.present
}

// Set replaces the current value and notifies subscribers.
func (s *Store[T]) Set(v T) Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	s.present = true
	s.version++
	return s.publishLocked()
}

// Clear drops the current value and notifies subscribers.
func (s *Store[T]) Clear() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	s.value = zero
	s.present = false
	s.version++
	return s.publishLocked()
}

// Subscribe registers a subscription that immediately receives the current
// snapshot.
func (s *Store[T]) Subscribe() *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	sub := &Subscription[T]{
		id:    s.nextSub,
		store: s,
		ch:    make(chan Snapshot[T], 1),
	}
	s.subs[sub.id] = sub
	sub.ch <- s.snapshotLocked()
	return sub
}

// Subscribers reports the number of live subscriptions.
func (s *Store[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Store[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{Value: s.value, Present: s.present, Version: s.version}
}

func (s *Store[T]) publishLocked() Snapshot[T] {
	snap := s.snapshotLocked()
	for _, sub := range s.subs {
		sub.offer(snap)
	}
	return snap
}

func (s *Store[T]) unsubscribe(sub *Subscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub.id]; !ok {
		return
	}
	delete(s.subs, sub.id)
	close(sub.ch)
}

// Subscription delivers snapshots of a [Store]. Only the latest undelivered
// snapshot is buffered.
type Subscription[T any] struct {
	id    uint64
	store *Store[T]
	ch    chan Snapshot[T]
	once  sync.Once
}

// C returns the delivery channel. It is closed by [Subscription.Close].
// A nil Subscription returns a nil channel.
func (sub *Subscription[T]) C() <-chan Snapshot[T] {
	if sub == nil {
		return nil
	}
	return sub.ch
}

// Close detaches the subscription and closes its channel.
func (sub *Subscription[T]) Close() {
	if sub == nil {
		return
	}
	sub.once.Do(func() {
		sub.store.unsubscribe(sub)
	})
}

// offer is only called with the store lock held, so it is the sole sender.
func (sub *Subscription[T]) offer(snap Snapshot[T]) {
	select {
	case sub.ch <- snap:
		return
	default:
	}
	// drop the stale undelivered snapshot
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- snap:
	default:
	}
}
