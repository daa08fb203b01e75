// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"calorie_backend/internal/api"
	"calorie_backend/internal/feature/analysis/domain"
	"calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/analysis/transport/http/dto"
	"calorie_backend/internal/feature/capture/transport/upload"
)

// AnalysisUsecase は画像解析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	Estimate(ctx context.Context, image entity.EncodedImage) (*entity.AnalysisResult, error)
}

// AnalysisHandler はステートレスな画像解析のHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc     AnalysisUsecase
	reader upload.FileReader
}

// NewAnalysisHandler はAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase, reader upload.FileReader) *AnalysisHandler {
	return &AnalysisHandler{uc: uc, reader: reader}
}

// Analyze は画像をアップロードして食材とカロリーを推定します。
//
// エンドポイント: POST /v1/analyze
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大10MB）
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	img, err := upload.ReadImage(c, h.reader)
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "an image file is required"})
		return
	}

	result, err := h.uc.Estimate(c.Request.Context(), img)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyImage) || errors.Is(err, domain.ErrImageTooLarge) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "an image file is required"})
			return
		}
		slog.Error("画像解析に失敗", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: domain.UserMessage})
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalysisResponse(*result))
}
