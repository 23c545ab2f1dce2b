// Package retry provides a bounded-attempt, fixed-delay retry combinator.
//
// The combinator is deliberately minimal: a fixed number of attempts with a
// full fixed sleep between them. There is no jitter and no backoff growth;
// the delays are sized for short browser-settle windows, not long outages.
// The package knows nothing about browsers or pages and can wrap any
// fallible action.
package retry

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoAttempts is returned when a zero-attempt budget is executed.
	// The action is never invoked in that case.
	ErrNoAttempts = errors.New("retry: zero attempts configured")

	// ErrExhausted marks an error returned after every attempt failed.
	// The error from the final attempt is carried alongside it, so callers
	// can match either with errors.Is.
	ErrExhausted = errors.New("retry: attempts exhausted")
)

// Policy pairs an attempt budget with a fixed inter-attempt delay.
// The same policy is applied uniformly to every action it wraps.
type Policy struct {
	// Attempts is the total invocation budget, not a count of re-tries.
	Attempts int `yaml:"attempts" json:"attempts"`

	// Delay is the fixed sleep between consecutive attempts.
	Delay time.Duration `yaml:"delay" json:"delay"`
}

// DefaultPolicy matches the page-interaction budget used throughout the
// browser package: five attempts, two seconds apart.
var DefaultPolicy = Policy{Attempts: 5, Delay: 2 * time.Second}

// exhaustedError carries the final attempt's error behind ErrExhausted.
type exhaustedError struct {
	attempts int
	last     error
}

func (e *exhaustedError) Error() string {
	return fmt.Sprintf("retry: %d attempts exhausted: %v", e.attempts, e.last)
}

func (e *exhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

func (e *exhaustedError) Unwrap() error {
	return e.last
}

// Do invokes fn up to attempts times and returns the first successful
// result. Between attempts it sleeps the full delay on the calling
// goroutine; once the loop has begun there is no cancellation.
//
// A non-positive attempt budget fails immediately with ErrNoAttempts
// without invoking fn. On exhaustion the returned error matches both
// ErrExhausted and the error from the final attempt.
func Do[T any](attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if attempts <= 0 {
		return zero, ErrNoAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(delay)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return zero, &exhaustedError{attempts: attempts, last: lastErr}
}

// DoFunc is Do for actions that produce no result value.
func DoFunc(attempts int, delay time.Duration, fn func() error) error {
	_, err := Do(attempts, delay, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Do applies the policy to fn.
func (p Policy) Do(fn func() error) error {
	return DoFunc(p.Attempts, p.Delay, fn)
}
