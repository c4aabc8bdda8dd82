package jikan

import "time"

// BackoffPolicy describes the retry schedule for catalog requests: up to
// MaxAttempts tries, sleeping BaseDelay before the second attempt and
// doubling per Multiplier after that. It is a pure value so tests can
// evaluate schedules without sleeping.
type BackoffPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultBackoff mirrors the schedule the service has always used:
// 3 attempts, 500ms base, doubling.
func DefaultBackoff() BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2,
	}
}

// Delay returns how long to wait after the given zero-based failed attempt.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 0; i < attempt; i++ {
		d *= p.Multiplier
	}
	return time.Duration(d)
}

// Clock abstracts sleeping so retry behavior is unit-testable
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock returns a Clock backed by time.Sleep
func RealClock() Clock { return realClock{} }
