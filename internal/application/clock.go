package application

import "time"

// Clock abstraction so use-cases stay deterministic under test. The
// authenticity engine takes the evaluation instant from here, never from
// an ambient time.Now().
type Clock interface {
	Now() time.Time
}

// SystemClock is the default implementation backed by time.Now().
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant; intended for tests.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
