package session

import (
	"sync"
	"testing"
	"time"
)

type identity struct {
	ID    string
	Email string
}

func recv[T any](t *testing.T, sub *Subscription[T]) Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-sub.C():
		if !ok {
			t.Fatal("subscription closed")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot[T]{}
}

func TestStoreStartsAbsent(t *testing.T) {
	s := NewStore[identity]()
	snap := s.Snapshot()
	if snap.Present || snap.Version != 0 {
		t.Fatalf("expected absent initial state, got %+v", snap)
	}
	if _, ok := s.Value(); ok {
		t.Fatal("expected no value")
	}
}

func TestSubscribeReplaysLatestValue(t *testing.T) {
	s := NewStore[identity]()
	s.Set(identity{ID: "1"})
	s.Set(identity{ID: "2"})

	sub := s.Subscribe()
	defer sub.Close()

	snap := recv(t, sub)
	if !snap.Present || snap.Value.ID != "2" || snap.Version != 2 {
		t.Fatalf("expected replay of latest value, got %+v", snap)
	}
}

func TestSetMulticastsToAllSubscribers(t *testing.T) {
	s := NewStore[identity]()
	a := s.Subscribe()
	b := s.Subscribe()
	defer a.Close()
	defer b.Close()

	recv(t, a)
	recv(t, b)

	s.Set(identity{ID: "7", Email: "x@example.com"})

	for _, sub := range []*Subscription[identity]{a, b} {
		snap := recv(t, sub)
		if snap.Value.ID != "7" || !snap.Present {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
	}

	s.Clear()
	for _, sub := range []*Subscription[identity]{a, b} {
		if snap := recv(t, sub); snap.Present {
			t.Fatalf("expected cleared snapshot, got %+v", snap)
		}
	}
}

func TestSlowSubscriberSeesLatestOnly(t *testing.T) {
	s := NewStore[identity]()
	sub := s.Subscribe()
	defer sub.Close()

	for i := 0; i < 100; i++ {
		s.Set(identity{ID: "v"})
	}
	s.Set(identity{ID: "last"})

	snap := recv(t, sub)
	if snap.Value.ID != "last" || snap.Version != 101 {
		t.Fatalf("expected coalesced latest snapshot, got %+v", snap)
	}
	select {
	case extra := <-sub.C():
		t.Fatalf("expected no further buffered snapshot, got %+v", extra)
	default:
	}
}

func TestCloseDetachesSubscription(t *testing.T) {
	s := NewStore[identity]()
	sub := s.Subscribe()
	sub.Close()
	sub.Close()

	if n := s.Subscribers(); n != 0 {
		t.Fatalf("expected no subscribers, got %d", n)
	}

	s.Set(identity{ID: "after"})
	// drain the replayed snapshot, then expect a closed channel
	for range sub.C() {
	}
}

func TestConcurrentSetAndSubscribe(t *testing.T) {
	s := NewStore[identity]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Set(identity{ID: "x"})
			}
		}()
		go func() {
			defer wg.Done()
			sub := s.Subscribe()
			for j := 0; j < 20; j++ {
				select {
				case <-sub.C():
				default:
				}
			}
			sub.Close()
		}()
	}
	wg.Wait()

	if got := s.Snapshot().Version; got != 8*200 {
		t.Fatalf("expected version %d, got %d", 8*200, got)
	}
}
