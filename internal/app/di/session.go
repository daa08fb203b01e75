package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	sessionadapters "calorie_backend/internal/feature/session/adapters"
	"calorie_backend/internal/feature/session/usecase"
	"calorie_backend/internal/platform/session"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to process memory.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, "session", ttl)
	}
	return sessionadapters.NewSessionMemory(ttl)
}
