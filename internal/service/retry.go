package service

import (
	"context"
	"errors"

	"skillcheck/internal/domain"
	"skillcheck/internal/logger"
	"skillcheck/internal/metrics"

	"go.uber.org/zap"
)

// DefaultMaxRetries is the number of extra attempts made after model output
// fails validation.
const DefaultMaxRetries = 2

// attemptFunc performs one model round trip. strict is false on the first
// attempt and true on every retry.
type attemptFunc[T any] func(ctx context.Context, strict bool) (T, error)

// retryOnInvalid runs attempt until it succeeds, fails with something other
// than a *domain.ValidationError, or maxRetries retries are spent. It returns
// the number of attempts made. Attempts are sequential.
func retryOnInvalid[T any](ctx context.Context, operation string, maxRetries int, attempt attemptFunc[T]) (T, int, error) {
	var zero T
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return zero, i, err
		}

		v, err := attempt(ctx, i > 0)
		if err == nil {
			metrics.LLMCalls.WithLabelValues(operation, "ok").Inc()
			return v, i + 1, nil
		}

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			metrics.LLMCalls.WithLabelValues(operation, "error").Inc()
			return zero, i + 1, err
		}

		metrics.LLMCalls.WithLabelValues(operation, "invalid").Inc()
		logger.Get().Warn("model output failed validation",
			zap.String("operation", operation),
			zap.Int("attempt", i+1),
			zap.String("kind", string(verr.Kind)),
			zap.String("field", verr.Field))
		lastErr = err
	}
	return zero, maxRetries + 1, lastErr
}
