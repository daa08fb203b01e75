// Package handler はjournalフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"calorie_backend/internal/api"
	"calorie_backend/internal/feature/analysis/transport/http/dto"
	"calorie_backend/internal/feature/journal/domain"
	"calorie_backend/internal/feature/journal/domain/entity"
	sessiondomain "calorie_backend/internal/feature/session/domain"
)

// JournalUsecase は記録ユースケースのインターフェースを定義します。
type JournalUsecase interface {
	SaveFromSession(ctx context.Context, sessionID string) (*entity.Entry, error)
	List(ctx context.Context, limit int) ([]entity.Entry, error)
}

// JournalHandler は解析結果の記録に関するHTTPリクエストを処理します。
type JournalHandler struct {
	uc JournalUsecase
}

// NewJournalHandler はJournalHandlerの新しいインスタンスを生成します。
func NewJournalHandler(uc JournalUsecase) *JournalHandler {
	return &JournalHandler{uc: uc}
}

// Save はセッションの現在の結果を記録します。
//
// エンドポイント: POST /v1/sessions/:id/journal
func (h *JournalHandler) Save(c *gin.Context) {
	e, err := h.uc.SaveFromSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, sessiondomain.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "session not found"})
		case errors.Is(err, domain.ErrNothingToSave):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "there is no result to save"})
		default:
			slog.Error("failed to save journal entry", "error", err, "session_id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to save journal entry"})
		}
		return
	}
	c.JSON(http.StatusCreated, ToJournalEntry(*e))
}

// List は記録を新しい順に返します。
//
// エンドポイント: GET /v1/journal?limit=N
func (h *JournalHandler) List(c *gin.Context) {
	var params api.ListJournalParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "limit must be an integer"})
		return
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	entries, err := h.uc.List(c.Request.Context(), limit)
	if err != nil {
		slog.Error("failed to list journal entries", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list journal entries"})
		return
	}

	res := api.JournalListResponse{Entries: make([]api.JournalEntry, 0, len(entries))}
	for _, e := range entries {
		res.Entries = append(res.Entries, ToJournalEntry(e))
	}
	c.JSON(http.StatusOK, res)
}

// ToJournalEntry はエントリをAPI表現に変換します。
func ToJournalEntry(e entity.Entry) api.JournalEntry {
	r := e.Result()
	out := api.JournalEntry{
		CreatedAt:                 e.CreatedAt,
		Ingredients:               dto.ToIngredients(e.Ingredients),
		OverallAccuracyPercentage: e.OverallAccuracyPercentage,
		TotalCalories:             r.RoundedTotalCalories(),
		LowAccuracy:               r.IsLowAccuracy(),
	}
	if id, err := uuid.Parse(e.ID); err == nil {
		out.Id = id
	}
	if sid, err := uuid.Parse(e.SessionID); err == nil {
		out.SessionId = &sid
	}
	return out
}
