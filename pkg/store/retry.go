package store

import (
	"context"
	"errors"
	"time"
)

// Connection retry defaults for the network backends.
const (
	connectAttempts = 3
	connectDelay    = 200 * time.Millisecond
)

// transientError marks a failure worth retrying, such as a refused PING
// while the server is still starting.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// transient wraps err so retry attempts it again. A nil err stays nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// retry calls fn up to attempts times, doubling delay after each transient
// failure. Other errors are returned immediately; cancellation returns
// ctx.Err().
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*transientError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	var te *transientError
	if errors.As(lastErr, &te) {
		return te.err
	}
	return lastErr
}
