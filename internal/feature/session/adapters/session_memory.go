// Package adapters はsessionフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"sync"
	"time"

	"calorie_backend/internal/feature/session/domain"
	"calorie_backend/internal/feature/session/domain/entity"
	"calorie_backend/internal/feature/session/usecase"
)

// SessionMemory はプロセス内メモリにセッションを保持するリポジトリです。
// Redisが利用できない場合とCLIで使われます。
// ttlが正の場合、最後の保存からttlを過ぎたセッションは存在しないものとして扱います。
type SessionMemory struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	session   entity.Session
	expiresAt time.Time // ttlが0の場合はゼロ値
}

var _ usecase.SessionRepository = (*SessionMemory)(nil)

// NewSessionMemory は新しいin-memoryリポジトリを生成します。
// ttlが0以下の場合、セッションは削除されるまで保持されます。
func NewSessionMemory(ttl time.Duration) *SessionMemory {
	return &SessionMemory{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *SessionMemory) entry(s *entity.Session, now time.Time) memoryEntry {
	e := memoryEntry{session: *s}
	if r.ttl > 0 {
		e.expiresAt = now.Add(r.ttl)
	}
	return e
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Create はセッションを保存します。期限切れのセッションはここでまとめて破棄します。
func (r *SessionMemory) Create(ctx context.Context, s *entity.Session) error {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.sessions {
		if e.expired(now) {
			delete(r.sessions, id)
		}
	}
	r.sessions[s.ID] = r.entry(s, now)
	return nil
}

// FindByID はセッションのコピーを返します。
func (r *SessionMemory) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || e.expired(r.now()) {
		return nil, domain.ErrSessionNotFound
	}
	s := e.session
	return &s, nil
}

// Save はセッションを上書き保存し、有効期限を延長します。
// 削除済みまたは期限切れのセッションは復活させません。
func (r *SessionMemory) Save(ctx context.Context, s *entity.Session) error {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[s.ID]
	if !ok || e.expired(now) {
		delete(r.sessions, s.ID)
		return domain.ErrSessionNotFound
	}
	r.sessions[s.ID] = r.entry(s, now)
	return nil
}

// Delete はセッションを削除します。存在しない場合も成功します。
func (r *SessionMemory) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}
