package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGenerateWithRetryDoesNotRetryPermanentFailures(t *testing.T) {
	for _, reason := range []BackendReason{BackendReasonAuth, BackendReasonQuota, BackendReasonMalformed} {
		t.Run(string(reason), func(t *testing.T) {
			gen := &stubGemini{errs: []error{&BackendError{Reason: reason, Err: errStub}}, responses: []string{"", "ok"}}

			_, err := generateWithRetry(context.Background(), gen, "p", GenerationParams{}, RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond})

			got, ok := BackendReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, reason, got)
			assert.Equal(t, 1, gen.callCount())
		})
	}
}

func TestGenerateWithRetryRetriesTransientFailures(t *testing.T) {
	for _, reason := range []BackendReason{BackendReasonTimeout, BackendReasonUnknown} {
		t.Run(string(reason), func(t *testing.T) {
			gen := &stubGemini{errs: []error{&BackendError{Reason: reason, Err: errStub}}, responses: []string{"", "ok"}}

			text, err := generateWithRetry(context.Background(), gen, "p", GenerationParams{}, RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond})

			require.NoError(t, err)
			assert.Equal(t, "ok", text)
			assert.Equal(t, 2, gen.callCount())
		})
	}
}

func TestGenerateWithRetrySingleAttemptByDefault(t *testing.T) {
	gen := &stubGemini{errs: []error{&BackendError{Reason: BackendReasonUnknown, Err: errStub}}, responses: []string{"", "ok"}}

	_, err := generateWithRetry(context.Background(), gen, "p", GenerationParams{}, RetryPolicy{})

	require.Error(t, err)
	assert.Equal(t, 1, gen.callCount())
}

func TestGenerateWithRetryClassifiesPlainErrors(t *testing.T) {
	gen := &stubGemini{errs: []error{errStub}}

	_, err := generateWithRetry(context.Background(), gen, "p", GenerationParams{}, RetryPolicy{MaxAttempts: 1})

	reason, ok := BackendReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, BackendReasonUnknown, reason)
	assert.ErrorIs(t, err, errStub)
}

func TestGenerateWithRetryStopsAtDeadline(t *testing.T) {
	gen := &stubGemini{block: true}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := generateWithRetry(ctx, gen, "p", GenerationParams{}, RetryPolicy{MaxAttempts: 5, InitialDelay: time.Millisecond})

	reason, ok := BackendReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, BackendReasonTimeout, reason)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, gen.callCount())
}

func TestRetryPolicyBackoff(t *testing.T) {
	b := RetryPolicy{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond}.backoff()

	for n := 0; n < 2; n++ {
		base := 100 * time.Millisecond << n
		d, stop := b.Next()
		require.False(t, stop, "retry %d", n+1)
		assert.GreaterOrEqual(t, d, base-base/4)
		assert.LessOrEqual(t, d, base+base/4)
	}

	_, stop := RetryPolicy{MaxAttempts: 3}.backoff().Next()
	assert.False(t, stop)

	_, stop = b.Next()
	assert.True(t, stop, "three attempts allow two retries")

	_, stop = RetryPolicy{}.backoff().Next()
	assert.True(t, stop, "zero policy means a single attempt")
}

func TestGenerateWithRetryDeadlineDuringBackoff(t *testing.T) {
	gen := &stubGemini{errs: []error{
		&BackendError{Reason: BackendReasonUnknown, Err: errStub},
		&BackendError{Reason: BackendReasonUnknown, Err: errStub},
	}}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := generateWithRetry(ctx, gen, "p", GenerationParams{}, RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second})

	reason, ok := BackendReasonOf(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, BackendReasonTimeout, reason)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, gen.callCount())
}

func TestReasonForStatus(t *testing.T) {
	tests := map[int]BackendReason{
		http.StatusUnauthorized:        BackendReasonAuth,
		http.StatusForbidden:           BackendReasonAuth,
		http.StatusTooManyRequests:     BackendReasonQuota,
		http.StatusRequestTimeout:      BackendReasonTimeout,
		http.StatusGatewayTimeout:      BackendReasonTimeout,
		http.StatusBadRequest:          BackendReasonMalformed,
		http.StatusNotFound:            BackendReasonMalformed,
		http.StatusInternalServerError: BackendReasonUnknown,
		http.StatusServiceUnavailable:  BackendReasonUnknown,
	}

	for code, want := range tests {
		assert.Equal(t, want, reasonForStatus(code), "status %d", code)
	}
}

func TestClassifyBackendError(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, BackendReasonTimeout, classifyBackendError(ctx, context.DeadlineExceeded).Reason)
	assert.Equal(t, BackendReasonQuota, classifyBackendError(ctx, genai.APIError{Code: http.StatusTooManyRequests}).Reason)
	assert.Equal(t, BackendReasonAuth, classifyBackendError(ctx, &genai.APIError{Code: http.StatusForbidden}).Reason)
	assert.Equal(t, BackendReasonUnknown, classifyBackendError(ctx, errors.New("connection reset")).Reason)
}
