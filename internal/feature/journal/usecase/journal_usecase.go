// Package usecase はjournalフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"calorie_backend/internal/feature/journal/domain"
	"calorie_backend/internal/feature/journal/domain/entity"
	sessionentity "calorie_backend/internal/feature/session/domain/entity"
)

const (
	// DefaultListLimit は一覧取得の既定件数です。
	DefaultListLimit = 20
	// MaxListLimit は一覧取得の上限件数です。
	MaxListLimit = 100
)

// JournalRepository は記録の永続化を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type JournalRepository interface {
	Create(ctx context.Context, e *entity.Entry) error
	FindByID(ctx context.Context, id string) (*entity.Entry, error)
	// List は新しい順に最大limit件を返します。
	List(ctx context.Context, limit int) ([]entity.Entry, error)
}

// SessionReader は保存元のセッションを読み込みます。
type SessionReader interface {
	Get(ctx context.Context, id string) (*sessionentity.Session, error)
}

// journalUsecase は解析結果の保存と一覧を提供します。
type journalUsecase struct {
	repo     JournalRepository
	sessions SessionReader
	now      func() time.Time
}

// NewJournalUsecase はjournalUsecaseの新しいインスタンスを生成します。
func NewJournalUsecase(repo JournalRepository, sessions SessionReader) *journalUsecase {
	return &journalUsecase{repo: repo, sessions: sessions, now: time.Now}
}

// SaveFromSession はセッションの現在の結果をコピーして保存します。
// 結果表示中でない場合は domain.ErrNothingToSave を返します。
func (u *journalUsecase) SaveFromSession(ctx context.Context, sessionID string) (*entity.Entry, error) {
	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.State != sessionentity.StateResultReady || s.Result == nil {
		return nil, domain.ErrNothingToSave
	}

	e := &entity.Entry{
		ID:                        uuid.NewString(),
		SessionID:                 s.ID,
		Ingredients:               append(s.Result.Ingredients[:0:0], s.Result.Ingredients...),
		OverallAccuracyPercentage: s.Result.OverallAccuracyPercentage,
		CreatedAt:                 u.now(),
	}
	if err := u.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("save journal entry: %w", err)
	}

	slog.Info("journal entry saved", "entry_id", e.ID, "session_id", s.ID, "ingredients", len(e.Ingredients))
	return e, nil
}

// Get は記録を1件取得します。
func (u *journalUsecase) Get(ctx context.Context, id string) (*entity.Entry, error) {
	return u.repo.FindByID(ctx, id)
}

// List は新しい順に記録を返します。limitは 1〜MaxListLimit に丸められます。
func (u *journalUsecase) List(ctx context.Context, limit int) ([]entity.Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return u.repo.List(ctx, limit)
}
