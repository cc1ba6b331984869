package refresh

import "time"

// Clock abstracts the time source so schedules can be driven in tests.
// AfterFunc must never invoke f synchronously.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the cancellable handle returned by [Clock.AfterFunc].
type Timer interface {
	Stop() bool
}

// SystemClock is the wall-clock [Clock] backed by the time package.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
