package di

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calorie_backend/internal/feature/analysis/adapters/throttle"
	"calorie_backend/internal/feature/analysis/domain"
	sessionadapters "calorie_backend/internal/feature/session/adapters"
	"calorie_backend/internal/platform/session"
)

func TestNewInferenceClient(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
		errText string
	}{
		{
			name:    "gemini without key",
			env:     map[string]string{"INFERENCE_PROVIDER": "", "GEMINI_API_KEY": ""},
			wantErr: domain.ErrConfiguration,
		},
		{
			name:    "openai without key",
			env:     map[string]string{"INFERENCE_PROVIDER": "openai", "OPENAI_API_KEY": ""},
			wantErr: domain.ErrConfiguration,
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"INFERENCE_PROVIDER": "claude"},
			wantErr: ErrUnknownProvider,
		},
		{
			name:    "invalid rate limit",
			env:     map[string]string{"INFERENCE_PROVIDER": "openai", "OPENAI_API_KEY": "k", "INFERENCE_RATE_LIMIT": "fast"},
			errText: "INFERENCE_RATE_LIMIT",
		},
		{
			name: "openai with key",
			env:  map[string]string{"INFERENCE_PROVIDER": "openai", "OPENAI_API_KEY": "k", "INFERENCE_RATE_LIMIT": ""},
		},
		{
			name: "gemini with key and throttling disabled",
			env:  map[string]string{"INFERENCE_PROVIDER": "gemini", "GEMINI_API_KEY": "k", "INFERENCE_RATE_LIMIT": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			client, err := NewInferenceClient(context.Background())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
				assert.IsType(t, &throttle.ThrottledClient{}, client)
			}
		})
	}
}

func TestRateLimitFromEnv(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", DefaultRateLimit, false},
		{"0", 0, false},
		{"60", 60, false},
		{"-1", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("INFERENCE_RATE_LIMIT", tt.value)

			got, err := rateLimitFromEnv()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSessionRepository(t *testing.T) {
	t.Run("memory fallback", func(t *testing.T) {
		assert.IsType(t, &sessionadapters.SessionMemory{}, NewSessionRepository(nil, 0))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		assert.IsType(t, &session.SessionRedis{}, NewSessionRepository(rdb, 0))
	})
}

func TestNewCameraConfig(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("CAMERA_DEVICE", "")

		cfg, err := NewCameraConfig()

		require.NoError(t, err)
		assert.Equal(t, 0, cfg.DeviceID)
		assert.Equal(t, 1920, cfg.Width)
	})

	t.Run("device index", func(t *testing.T) {
		t.Setenv("CAMERA_DEVICE", "2")

		cfg, err := NewCameraConfig()

		require.NoError(t, err)
		assert.Equal(t, 2, cfg.DeviceID)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("CAMERA_DEVICE", "front")

		_, err := NewCameraConfig()

		assert.Error(t, err)
	})
}
