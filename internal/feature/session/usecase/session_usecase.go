// Package usecase はsessionフィーチャー（表示層の状態機械）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	analysisdomain "calorie_backend/internal/feature/analysis/domain"
	analysis "calorie_backend/internal/feature/analysis/domain/entity"
	capturedomain "calorie_backend/internal/feature/capture/domain"
	"calorie_backend/internal/feature/session/domain"
	"calorie_backend/internal/feature/session/domain/entity"
)

// SessionRepository はセッションの永続化を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	// FindByID は見つからない場合 domain.ErrSessionNotFound を返します。
	FindByID(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, s *entity.Session) error
	Delete(ctx context.Context, id string) error
}

// Analyzer は画像を解析して正規化済みの結果を返します。
type Analyzer interface {
	Estimate(ctx context.Context, image analysis.EncodedImage) (*analysis.AnalysisResult, error)
}

// Camera はカメラから1枚撮影します。
type Camera interface {
	FromCamera(ctx context.Context) (analysis.EncodedImage, error)
}

// sessionUsecase はセッションの状態遷移と非同期解析を管理します。
//
// 状態の読み書きはプロセス内のmutexで直列化されます。
// 解析の完了は開始時のSeqで照合され、画像の変更後に届いた古い応答は破棄されます。
type sessionUsecase struct {
	repo     SessionRepository
	analyzer Analyzer
	camera   Camera

	mu sync.Mutex
	wg sync.WaitGroup

	now   func() time.Time
	newID func() string
}

// NewSessionUsecase はsessionUsecaseの新しいインスタンスを生成します。
// cameraがnilの場合、カメラ撮影は常にデバイスエラーになります。
func NewSessionUsecase(repo SessionRepository, analyzer Analyzer, camera Camera) *sessionUsecase {
	return &sessionUsecase{
		repo:     repo,
		analyzer: analyzer,
		camera:   camera,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create は idle 状態の新しいセッションを作成します。
func (u *sessionUsecase) Create(ctx context.Context) (*entity.Session, error) {
	s := entity.NewSession(u.newID(), u.now())
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	slog.Info("session created", "session_id", s.ID)
	return s, nil
}

// Get はセッションを取得します。
func (u *sessionUsecase) Get(ctx context.Context, id string) (*entity.Session, error) {
	return u.repo.FindByID(ctx, id)
}

// SelectImage はアップロード・撮影された画像をセッションに設定します。
// 任意の状態から image_selected に遷移し、以前の画像と結果は破棄されます（「新しい写真」も同じ操作）。
func (u *sessionUsecase) SelectImage(ctx context.Context, id string, img analysis.EncodedImage) (*entity.Session, error) {
	if img.IsEmpty() {
		return nil, analysisdomain.ErrEmptyImage
	}
	if len(img.Data) > analysis.MaxImageSize {
		return nil, fmt.Errorf("%w of %d bytes", analysisdomain.ErrImageTooLarge, analysis.MaxImageSize)
	}
	return u.update(ctx, id, func(s *entity.Session) error {
		s.SelectImage(img, u.now())
		return nil
	})
}

// ClearImage は画像と結果を破棄して idle に戻します。
func (u *sessionUsecase) ClearImage(ctx context.Context, id string) (*entity.Session, error) {
	return u.update(ctx, id, func(s *entity.Session) error {
		s.ClearImage(u.now())
		return nil
	})
}

// CaptureFromCamera はカメラから撮影し、成功すればその画像を選択します。
// カメラの取得に失敗した場合はセッションを device エラー状態にし、エラーは返しません。
// キャンセルされた場合はセッションを変更しません。
func (u *sessionUsecase) CaptureFromCamera(ctx context.Context, id string) (*entity.Session, error) {
	if _, err := u.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	var (
		img analysis.EncodedImage
		err = errors.New("no camera configured")
	)
	if u.camera != nil {
		// 撮影はユーザー操作を待つためロックの外で行う
		img, err = u.camera.FromCamera(ctx)
	}

	switch {
	case err == nil:
		return u.update(ctx, id, func(s *entity.Session) error {
			s.SelectImage(img, u.now())
			return nil
		})
	case errors.Is(err, capturedomain.ErrCaptureCancelled):
		slog.Info("camera capture cancelled", "session_id", id)
		return u.repo.FindByID(ctx, id)
	default:
		slog.Error("camera capture failed", "error", err, "session_id", id)
		return u.update(ctx, id, func(s *entity.Session) error {
			s.FailDevice(capturedomain.DeviceErrorMessage, u.now())
			return nil
		})
	}
}

// Analyze は選択中の画像の解析を開始し、analyzing 状態のセッションを返します。
// 推論はバックグラウンドで実行され、完了時に result_ready か error に遷移します。
// 画像がない場合は何もしません。解析中の場合は domain.ErrAnalysisInProgress を返します。
func (u *sessionUsecase) Analyze(ctx context.Context, id string) (*entity.Session, error) {
	var (
		seq     uint64
		started bool
		img     analysis.EncodedImage
	)
	s, err := u.update(ctx, id, func(s *entity.Session) error {
		var ok bool
		seq, started, ok = s.BeginAnalysis(u.now())
		if !ok {
			return domain.ErrAnalysisInProgress
		}
		if started {
			img = *s.Image
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !started {
		slog.Debug("analyze requested without an image", "session_id", id)
		return s, nil
	}

	slog.Info("analysis started", "session_id", id, "seq", seq)
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		// リクエスト終了後も解析は継続する（呼び出しのキャンセルは行わない）
		u.settle(context.WithoutCancel(ctx), id, seq, img)
	}()
	return s, nil
}

// Reanalyze は前回の結果を破棄して同じ画像を再解析します。
func (u *sessionUsecase) Reanalyze(ctx context.Context, id string) (*entity.Session, error) {
	return u.Analyze(ctx, id)
}

// Delete はセッションを削除します。
func (u *sessionUsecase) Delete(ctx context.Context, id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.repo.Delete(ctx, id)
}

// Wait は実行中のすべての解析が反映されるまで待機します。
func (u *sessionUsecase) Wait() {
	u.wg.Wait()
}

// settle は推論を実行し、Seqが一致する場合のみ結果をセッションに反映します。
func (u *sessionUsecase) settle(ctx context.Context, id string, seq uint64, img analysis.EncodedImage) {
	result, estimateErr := u.analyzer.Estimate(ctx, img)

	_, err := u.update(ctx, id, func(s *entity.Session) error {
		var applied bool
		if estimateErr != nil {
			applied = s.FailAnalysis(seq, u.now())
		} else {
			applied = s.CompleteAnalysis(seq, *result, u.now())
		}
		if !applied {
			return errStale
		}
		return nil
	})

	switch {
	case errors.Is(err, errStale):
		slog.Info("discarding stale analysis response", "session_id", id, "seq", seq)
	case errors.Is(err, domain.ErrSessionNotFound):
		slog.Info("session gone before analysis settled", "session_id", id, "seq", seq)
	case err != nil:
		slog.Error("failed to store analysis outcome", "error", err, "session_id", id, "seq", seq)
	case estimateErr != nil:
		slog.Warn("analysis settled with error", "error", estimateErr, "session_id", id, "seq", seq)
	default:
		slog.Info("analysis settled", "session_id", id, "seq", seq, "total_calories", result.RoundedTotalCalories())
	}
}

var errStale = errors.New("stale analysis response")

// update はセッションを読み込み、fnで変更して保存します。fnがエラーを返した場合は保存しません。
func (u *sessionUsecase) update(ctx context.Context, id string, fn func(s *entity.Session) error) (*entity.Session, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	s, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := u.repo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}
