// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"calorie_backend/internal/feature/journal/domain/entity"
	"calorie_backend/internal/feature/journal/usecase"
)

// DefaultTTL は記録のキャッシュ有効期間です。
const DefaultTTL = 5 * time.Minute

// CachingJournalRepository decorates a JournalRepository with Redis caching.
// Only saved journal entries are cached; live analysis sessions never pass through here.
type CachingJournalRepository struct {
	inner     usecase.JournalRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.JournalRepository = (*CachingJournalRepository)(nil)

// NewCachingJournalRepository decorates a JournalRepository with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses "journal".
// A nil rdb disables caching.
func NewCachingJournalRepository(rdb *redis.Client, ttl time.Duration, inner usecase.JournalRepository, namespace string) *CachingJournalRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "journal"
	}
	return &CachingJournalRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create saves the entry and invalidates every cached list page.
func (c *CachingJournalRepository) Create(ctx context.Context, e *entity.Entry) error {
	if err := c.inner.Create(ctx, e); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.deleteByPattern(ctx, c.listKeyPrefix()+"*") // Best effort: don't fail if cache deletion fails
	return nil
}

// FindByID returns a single entry, checking cache first.
func (c *CachingJournalRepository) FindByID(ctx context.Context, id string) (*entity.Entry, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := fmt.Sprintf("%s:entry:%s", c.namespace, safe(id))
	var cached entity.Entry
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	e, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, e)
	return e, nil
}

// List returns the newest entries, checking cache first then falling back to the database.
func (c *CachingJournalRepository) List(ctx context.Context, limit int) ([]entity.Entry, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, limit)
	}

	key := fmt.Sprintf("%s%d", c.listKeyPrefix(), limit)
	var cached []entity.Entry
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// get reads and decodes a cached value. Corrupted entries are deleted.
func (c *CachingJournalRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores a value (best effort).
func (c *CachingJournalRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingJournalRepository) listKeyPrefix() string {
	return c.namespace + ":list:"
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingJournalRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
