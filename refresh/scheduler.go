package refresh

import (
	"sync"
	"time"
)

// DefaultLead is how long before expiry the renewal fires.
const DefaultLead = 60 * time.Second

// Ticket is the handle of one armed renewal.
type Ticket struct {
	id     uint64
	at     time.Time
	timer  Timer
	owner  *Scheduler
	action func()
}

// ID returns the arm sequence number of the ticket.
func (t *Ticket) ID() uint64 {
	if t == nil {
		return 0
	}
	return t.id
}

// FireAt returns the instant the ticket is scheduled for.
func (t *Ticket) FireAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.at
}

// Cancel stops the ticket if it is still the pending one. It is safe to call
// more than once and after the ticket fired.
func (t *Ticket) Cancel() {
	if t == nil || t.owner == nil {
		return
	}
	t.owner.cancel(t)
}

// Scheduler keeps at most one pending renewal.
//
// Scheduler methods are safe for concurrent use.
type Scheduler struct {
	clock Clock
	lead  time.Duration

	mu      sync.Mutex
	seq     uint64
	current *Ticket
	fired   uint64
}

// NewScheduler returns a Scheduler firing lead before expiry. A nil clock
// selects [SystemClock]; a non-positive lead selects [DefaultLead].
func NewScheduler(clock Clock, lead time.Duration) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if lead <= 0 {
		lead = DefaultLead
	}
	return &Scheduler{clock: clock, lead: lead}
}

// Lead reports how long before expiry renewals fire.
func (s *Scheduler) Lead() time.Duration {
	return s.lead
}

// Delay returns the wait before a renewal for expiry would fire. Negative
// delays are clamped to zero.
func (s *Scheduler) Delay(expiry time.Time) time.Duration {
	d := expiry.Sub(s.clock.Now()) - s.lead
	if d < 0 {
		return 0
	}
	return d
}

// Arm cancels the pending ticket, if any, and schedules action to run at
// expiry minus the lead.
func (s *Scheduler) Arm(expiry time.Time, action func()) *Ticket {
	delay := s.Delay(expiry)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.timer.Stop()
		s.current = nil
	}

	s.seq++
	t := &Ticket{
		id:     s.seq,
		at:     s.clock.Now().Add(delay),
		owner:  s,
		action: action,
	}
	t.timer = s.clock.AfterFunc(delay, func() { s.fire(t) })
	s.current = t
	return t
}

// Disarm cancels the pending ticket. It is a no-op when nothing is pending.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	s.current.timer.Stop()
	s.current = nil
}

// Pending reports whether a renewal is armed and has not fired.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Next returns the pending ticket, or nil.
func (s *Scheduler) Next() *Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Fired counts actions that actually ran.
func (s *Scheduler) Fired() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

func (s *Scheduler) fire(t *Ticket) {
	s.mu.Lock()
	if s.current != t {
		// replaced or cancelled after the timer was already running
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.fired++
	s.mu.Unlock()

	if t.action != nil {
		t.action()
	}
}

func (s *Scheduler) cancel(t *Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != t {
		return
	}
	t.timer.Stop()
	s.current = nil
}
