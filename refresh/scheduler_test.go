package refresh

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

func TestArmFiresOneLeadBeforeExpiry(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock, 0)

	var fired atomic.Int32
	ticket := s.Arm(clock.Now().Add(120*time.Second), func() { fired.Add(1) })

	if got := ticket.FireAt().Sub(clock.Now()); got != 60*time.Second {
		t.Fatalf("expected renewal in 60s, got %v", got)
	}

	clock.Advance(55 * time.Second)
	if fired.Load() != 0 {
		t.Fatal("renewal fired before 55s")
	}
	if !s.Pending() {
		t.Fatal("expected pending renewal")
	}

	clock.Advance(10 * time.Second)
	if fired.Load() != 1 {
		t.Fatalf("expected renewal by 65s, fired=%d", fired.Load())
	}
	if s.Pending() {
		t.Fatal("fired ticket must not remain pending")
	}
}

func TestArmClampsPastExpiryToImmediate(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock, time.Minute)

	if d := s.Delay(clock.Now().Add(30 * time.Second)); d != 0 {
		t.Fatalf("expected zero delay inside lead window, got %v", d)
	}
	if d := s.Delay(clock.Now().Add(-time.Hour)); d != 0 {
		t.Fatalf("expected zero delay for expired token, got %v", d)
	}

	var fired atomic.Int32
	s.Arm(clock.Now().Add(-time.Hour), func() { fired.Add(1) })
	clock.Advance(0)
	if fired.Load() != 1 {
		t.Fatal("expected immediate renewal for expired token")
	}
}

func TestArmTwiceLeavesExactlyOnePending(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock, 0)

	var first, second atomic.Int32
	t1 := s.Arm(clock.Now().Add(120*time.Second), func() { first.Add(1) })
	t2 := s.Arm(clock.Now().Add(300*time.Second), func() { second.Add(1) })

	if t1.ID() == t2.ID() {
		t.Fatal("expected distinct ticket ids")
	}
	if s.Next() != t2 {
		t.Fatal("expected the latest ticket to be pending")
	}

	clock.Advance(time.Hour)
	if first.Load() != 0 {
		t.Fatal("replaced ticket must never fire")
	}
	if second.Load() != 1 {
		t.Fatalf("expected latest ticket to fire once, got %d", second.Load())
	}
	if s.Fired() != 1 {
		t.Fatalf("expected one fired action, got %d", s.Fired())
	}
}

func TestDisarmIsIdempotent(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock, 0)

	s.Disarm()

	var fired atomic.Int32
	s.Arm(clock.Now().Add(2*time.Minute), func() { fired.Add(1) })
	s.Disarm()
	s.Disarm()

	if s.Pending() {
		t.Fatal("expected no pending renewal after disarm")
	}
	clock.Advance(time.Hour)
	if fired.Load() != 0 {
		t.Fatal("disarmed renewal fired")
	}
}

func TestStaleTicketCancelDoesNotDisarmReplacement(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock, 0)

	var fired atomic.Int32
	old := s.Arm(clock.Now().Add(2*time.Minute), func() {})
	s.Arm(clock.Now().Add(3*time.Minute), func() { fired.Add(1) })

	old.Cancel()
	if !s.Pending() {
		t.Fatal("cancelling a replaced ticket must not disarm the current one")
	}
	clock.Advance(time.Hour)
	if fired.Load() != 1 {
		t.Fatal("expected current ticket to fire")
	}
}

func TestFireAfterReplacementRaceIsIgnored(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock, 0)

	var fired atomic.Int32
	stale := s.Arm(clock.Now().Add(2*time.Minute), func() { fired.Add(1) })
	s.Arm(clock.Now().Add(10*time.Minute), func() {})

	// timer callback already running when the slot was replaced
	s.fire(stale)
	if fired.Load() != 0 {
		t.Fatal("stale ticket action ran")
	}
}

func TestSystemClockFires(t *testing.T) {
	s := NewScheduler(nil, 50*time.Millisecond)
	done := make(chan struct{})
	s.Arm(time.Now().Add(60*time.Millisecond), func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("system clock renewal did not fire")
	}
}
