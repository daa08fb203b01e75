// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"calorie_backend/internal/feature/analysis/adapters/gemini"
	"calorie_backend/internal/feature/analysis/adapters/openai"
	"calorie_backend/internal/feature/analysis/adapters/throttle"
	"calorie_backend/internal/feature/analysis/usecase"
	infrahttp "calorie_backend/internal/platform/http"
	"calorie_backend/internal/shared/ratelimiter"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	// DefaultRateLimit は1分あたりの推論呼び出し数の既定値です（Gemini無料枠相当）。
	DefaultRateLimit = 15
)

// ErrUnknownProvider はINFERENCE_PROVIDERが未対応の値であることを示します。
var ErrUnknownProvider = errors.New("unknown inference provider")

// NewInferenceClient creates the provider selected by INFERENCE_PROVIDER, wrapped
// with a process-wide rate limiter of INFERENCE_RATE_LIMIT calls per minute.
// A missing API key fails here, before any network call.
func NewInferenceClient(ctx context.Context) (usecase.InferenceClient, error) {
	provider := os.Getenv("INFERENCE_PROVIDER")
	if provider == "" {
		provider = ProviderGemini
	}

	var (
		inner usecase.InferenceClient
		err   error
	)
	switch provider {
	case ProviderGemini:
		inner, err = gemini.NewGeminiClient(ctx, gemini.LoadConfig())
	case ProviderOpenAI:
		// 推論呼び出し自体にはタイムアウトを設けない
		inner, err = openai.NewChatClient(openai.LoadConfig(), infrahttp.NewHTTPClient(0))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if err != nil {
		return nil, err
	}

	limit, err := rateLimitFromEnv()
	if err != nil {
		return nil, err
	}
	slog.Info("inference client ready", "provider", provider, "rate_limit_per_minute", limit)

	var limiter ratelimiter.Limiter
	if limit > 0 {
		limiter = ratelimiter.NewRateLimiter(limit, time.Minute)
	}
	return throttle.NewThrottledClient(inner, limiter), nil
}

// rateLimitFromEnv reads INFERENCE_RATE_LIMIT. 0 disables throttling.
func rateLimitFromEnv() (int, error) {
	v := os.Getenv("INFERENCE_RATE_LIMIT")
	if v == "" {
		return DefaultRateLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid INFERENCE_RATE_LIMIT %q", v)
	}
	return n, nil
}
