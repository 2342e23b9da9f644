package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is returned for failures talking to a remote cache backend.
var ErrBackend = errors.New("cache backend error")

// retryAttempts bounds RetryWithBackoff; retryDelay is the first pause and
// doubles after every failed attempt.
var (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// RetryableError marks a transient backend failure, such as a dropped
// connection, that RetryWithBackoff should try again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// RetryWithBackoff calls fn until it succeeds, fails with an error not
// marked Retryable, or runs out of attempts. The last error is returned;
// a cancelled ctx ends the wait early with ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
