// Package usecase はanalysisフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"calorie_backend/internal/feature/analysis/domain"
	"calorie_backend/internal/feature/analysis/domain/entity"
)

const (
	// maxLoggedResponse はログに残すモデル出力の最大バイト数です。
	maxLoggedResponse = 512
)

// InferenceClient は外部のマルチモーダルモデルに画像を送り、生テキストを受け取ります。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type InferenceClient interface {
	// Analyze は画像と固定の指示文を送信し、モデルの出力テキストを返します。
	Analyze(ctx context.Context, image entity.EncodedImage) (string, error)
}

// analysisUsecase は 画像 → 推論 → パース のパイプラインを提供します。
type analysisUsecase struct {
	client InferenceClient
}

// NewAnalysisUsecase はanalysisUsecaseの新しいインスタンスを生成します。
func NewAnalysisUsecase(client InferenceClient) *analysisUsecase {
	return &analysisUsecase{client: client}
}

// Estimate は画像を解析し、正規化済みのAnalysisResultを返します。
// 推論エラー（domain.ErrAnalysisFailed）と形式エラー（domain.ErrFormat）はログ上で区別されます。
func (u *analysisUsecase) Estimate(ctx context.Context, image entity.EncodedImage) (*entity.AnalysisResult, error) {
	if image.IsEmpty() {
		return nil, domain.ErrEmptyImage
	}
	if len(image.Data) > entity.MaxImageSize {
		return nil, fmt.Errorf("%w of %d bytes", domain.ErrImageTooLarge, entity.MaxImageSize)
	}

	raw, err := u.client.Analyze(ctx, image)
	if err != nil {
		slog.Error("inference call failed", "error", err, "mime_type", image.ContentType())
		return nil, err
	}

	result, err := Parse(raw)
	if err != nil {
		slog.Error("failed to parse analysis result", "error", err, "response", truncate(raw, maxLoggedResponse))
		return nil, err
	}

	slog.Info("analysis completed",
		"ingredients", len(result.Ingredients),
		"total_calories", result.RoundedTotalCalories(),
		"overall_accuracy", result.OverallAccuracyPercentage,
	)
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
