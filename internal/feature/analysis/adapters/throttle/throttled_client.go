// Package throttle provides a rate-limited decorator for inference clients.
package throttle

import (
	"context"
	"log/slog"

	"calorie_backend/internal/feature/analysis/domain"
	"calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/analysis/usecase"
	"calorie_backend/internal/shared/ratelimiter"
)

// ThrottledClient decorates an InferenceClient with a process-wide rate limiter.
// It only delays calls; it never retries them.
type ThrottledClient struct {
	inner   usecase.InferenceClient
	limiter ratelimiter.Limiter
}

var _ usecase.InferenceClient = (*ThrottledClient)(nil)

// NewThrottledClient wraps inner. A nil limiter disables throttling.
func NewThrottledClient(inner usecase.InferenceClient, limiter ratelimiter.Limiter) *ThrottledClient {
	return &ThrottledClient{inner: inner, limiter: limiter}
}

// Analyze waits for a rate-limit slot and then delegates to the wrapped client.
func (c *ThrottledClient) Analyze(ctx context.Context, image entity.EncodedImage) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			slog.Warn("inference call abandoned while waiting for rate limit", "error", err)
			return "", domain.ErrAnalysisFailed
		}
	}
	return c.inner.Analyze(ctx, image)
}
