package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultRetryDelay = 500 * time.Millisecond
	retryJitterPct    = 25
)

// RetryPolicy bounds repeated backend calls. MaxAttempts of 1 means a single
// call with no retry.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// backoff is exponential from InitialDelay with jitter, capped at
// MaxAttempts-1 retries.
func (p RetryPolicy) backoff() retry.Backoff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.InitialDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	b := retry.NewExponential(delay)
	b = retry.WithJitterPercent(retryJitterPct, b)
	return retry.WithMaxRetries(uint64(attempts-1), b)
}

// generateWithRetry calls the backend until it succeeds, the failure reason is
// not retryable, attempts run out, or ctx ends. Only timeout and unknown
// failures are retried.
func generateWithRetry(ctx context.Context, gen GeminiService, prompt string, params GenerationParams, policy RetryPolicy) (string, error) {
	var (
		text    string
		attempt int
	)

	err := retry.Do(ctx, policy.backoff(), func(ctx context.Context) error {
		attempt++

		out, err := gen.GenerateText(ctx, prompt, params)
		if err == nil {
			text = out
			return nil
		}

		var be *BackendError
		if !errors.As(err, &be) {
			be = classifyBackendError(ctx, err)
			err = be
		}
		if !be.Reason.Retryable() || ctx.Err() != nil {
			return err
		}

		log.Printf("⚠️ Attempt %d failed (%s)", attempt, be.Reason)
		return retry.RetryableError(err)
	})
	if err != nil {
		// retry.Do returns ctx.Err() when the deadline ends a backoff wait.
		if _, ok := BackendReasonOf(err); !ok {
			return "", classifyBackendError(ctx, err)
		}
		return "", err
	}

	return text, nil
}
