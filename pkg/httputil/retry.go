package httputil

import (
	"context"
	"errors"
	"time"
)

// maxDelay caps the wait between attempts. Link previews are interactive,
// so backoff never grows beyond a few seconds.
const maxDelay = 5 * time.Second

// RetryableError marks a transient failure that [Retry] attempts again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err wraps a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry calls fn at most attempts times (at least once). A failure that is
// not [IsRetryable] is returned at once. Between attempts Retry sleeps for
// delay, doubling it each time up to a cap, and gives up with ctx.Err()
// when ctx ends first. When every attempt fails the last error is returned.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for left := max(attempts, 1); ; {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if left--; left == 0 {
			return err
		}
		if werr := wait(ctx, delay); werr != nil {
			return werr
		}
		delay = min(delay*2, maxDelay)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
