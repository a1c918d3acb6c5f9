package storage

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient backend failure, such as a dropped
// connection to redis or mongo.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff schedule for network backends. Tests shorten retryDelay.
const retryAttempts = 3

var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, returns a permanent error,
// or retryAttempts calls have failed. The wait doubles after each failure.
// The error returned never carries the RetryableError marker.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if attempt == retryAttempts {
			return re.Err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
