package todo

import (
	"context"
	"time"
)

// RetryPolicy controls how an operation is retried.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Delay is the wait before the first retry.
	Delay time.Duration
	// MaxDelay caps exponential delays. Zero means no cap.
	MaxDelay time.Duration
	// Exponential doubles the delay after every retry.
	Exponential bool
	// Retryable decides whether a failure is worth another try.
	Retryable func(error) bool
	// Sleep waits between tries. Defaults to a context-aware timer.
	Sleep func(context.Context, time.Duration) error
}

// ReadRetry is applied to fetches: three retries after the first attempt,
// 1s doubling to at most 30s.
func ReadRetry() RetryPolicy {
	return RetryPolicy{
		Attempts:    4,
		Delay:       time.Second,
		MaxDelay:    30 * time.Second,
		Exponential: true,
		Retryable:   ReadRetryable,
	}
}

// WriteRetry is applied to mutations: three tries, 1s apart, only while the
// schema is missing.
func WriteRetry() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		Delay:     time.Second,
		Retryable: WriteRetryable,
	}
}

// NoRetry runs an operation exactly once.
func NoRetry() RetryPolicy {
	return RetryPolicy{Attempts: 1}
}

// ReadRetryable reports whether a failed read should be retried. Failures that
// waiting cannot fix are never retried.
func ReadRetryable(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindNotAuthenticated, KindPermission, KindConfiguration, KindNotFound:
		return false
	default:
		return true
	}
}

// WriteRetryable reports whether a failed write should be retried.
func WriteRetryable(err error) bool {
	return KindOf(err) == KindSchemaMissing
}

// DelayFor returns the wait before retry number n, counting from zero.
func (p RetryPolicy) DelayFor(n int) time.Duration {
	delay := p.Delay
	if p.Exponential {
		for i := 0; i < n; i++ {
			delay *= 2
			if p.MaxDelay > 0 && delay >= p.MaxDelay {
				return p.MaxDelay
			}
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Do runs fn until it succeeds, fails with a non-retryable error, the attempts
// run out, or ctx is done. It returns the last error.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	_, err := Retry(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Retry runs fn under policy and returns its value.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var (
		value T
		err   error
	)
	for attempt := 0; attempt < attempts; attempt++ {
		value, err = fn(ctx)
		if err == nil {
			return value, nil
		}
		if attempt == attempts-1 || p.Retryable == nil || !p.Retryable(err) {
			break
		}
		if sleepErr := sleep(ctx, p.DelayFor(attempt)); sleepErr != nil {
			break
		}
	}
	return value, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
