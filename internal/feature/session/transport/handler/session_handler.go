// Package handler はsessionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"calorie_backend/internal/api"
	analysisdomain "calorie_backend/internal/feature/analysis/domain"
	analysis "calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/analysis/transport/http/dto"
	capturedomain "calorie_backend/internal/feature/capture/domain"
	"calorie_backend/internal/feature/capture/transport/upload"
	captureusecase "calorie_backend/internal/feature/capture/usecase"
	"calorie_backend/internal/feature/session/domain"
	"calorie_backend/internal/feature/session/domain/entity"
	"calorie_backend/internal/feature/session/usecase"
)

// SessionUsecase はセッション操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SessionUsecase interface {
	Create(ctx context.Context) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	SelectImage(ctx context.Context, id string, img analysis.EncodedImage) (*entity.Session, error)
	ClearImage(ctx context.Context, id string) (*entity.Session, error)
	CaptureFromCamera(ctx context.Context, id string) (*entity.Session, error)
	Analyze(ctx context.Context, id string) (*entity.Session, error)
	Reanalyze(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

// ImageDecoder はアップロードされたファイルやデータURIから画像を作ります。
type ImageDecoder interface {
	upload.FileReader
	FromDataURI(s string) (analysis.EncodedImage, error)
}

// TokenIssuer はセッションIDを主体とするトークンを発行します。
type TokenIssuer interface {
	GenerateToken(sessionID string) (string, error)
}

// SessionHandler はセッション（1タブ分の解析サイクル）のHTTPリクエストを処理します。
type SessionHandler struct {
	uc      SessionUsecase
	decoder ImageDecoder
	tokens  TokenIssuer
}

// NewSessionHandler はSessionHandlerの新しいインスタンスを生成します。
func NewSessionHandler(uc SessionUsecase, decoder ImageDecoder, tokens TokenIssuer) *SessionHandler {
	return &SessionHandler{uc: uc, decoder: decoder, tokens: tokens}
}

// Create は新しいセッションを作成し、そのセッション専用のトークンを返します。
//
// エンドポイント: POST /v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	s, err := h.uc.Create(c.Request.Context())
	if err != nil {
		slog.Error("セッションの作成に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create session"})
		return
	}

	token, err := h.tokens.GenerateToken(s.ID)
	if err != nil {
		slog.Error("トークンの生成に失敗", "error", err, "session_id", s.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, api.SessionCreatedResponse{
		Session: ToSessionView(usecase.NewView(s), s.UpdatedAt),
		Token:   token,
	})
}

// Get は現在のセッション状態を返します。解析中はポーリングに使われます。
//
// エンドポイント: GET /v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	s, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, s, err)
}

// SelectImage は画像を選択（または新しい写真に置き換え）します。
//
// エンドポイント: POST /v1/sessions/:id/image
// Content-Type: multipart/form-data（image）または application/json（data_uri）
func (h *SessionHandler) SelectImage(c *gin.Context) {
	img, err := h.readImage(c)
	if err != nil {
		slog.Warn("画像の読み込みに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "an image file is required"})
		return
	}

	s, err := h.uc.SelectImage(c.Request.Context(), c.Param("id"), img)
	h.respond(c, http.StatusOK, s, err)
}

// ClearImage は画像と結果を破棄して初期状態に戻します。
//
// エンドポイント: DELETE /v1/sessions/:id/image
func (h *SessionHandler) ClearImage(c *gin.Context) {
	s, err := h.uc.ClearImage(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, s, err)
}

// Capture はサーバーに接続されたカメラで撮影します。
// カメラが使えない場合もエラー状態のセッションを200で返します。
//
// エンドポイント: POST /v1/sessions/:id/camera
func (h *SessionHandler) Capture(c *gin.Context) {
	s, err := h.uc.CaptureFromCamera(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, s, err)
}

// Analyze は解析を開始し、analyzing 状態を202で返します。
//
// エンドポイント: POST /v1/sessions/:id/analyze
func (h *SessionHandler) Analyze(c *gin.Context) {
	s, err := h.uc.Analyze(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusAccepted, s, err)
}

// Reanalyze は前回の結果を破棄して再解析します。
//
// エンドポイント: POST /v1/sessions/:id/reanalyze
func (h *SessionHandler) Reanalyze(c *gin.Context) {
	s, err := h.uc.Reanalyze(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusAccepted, s, err)
}

// Delete はセッションを削除します。
//
// エンドポイント: DELETE /v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		slog.Error("セッションの削除に失敗", "error", err, "session_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete session"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) readImage(c *gin.Context) (analysis.EncodedImage, error) {
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		return upload.ReadImage(c, h.decoder)
	}

	var req api.SelectImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return analysis.EncodedImage{}, err
	}
	img, err := h.decoder.FromDataURI(req.DataUri)
	if err != nil {
		return analysis.EncodedImage{}, err
	}
	if !captureusecase.IsImage(img.MIMEType) {
		return analysis.EncodedImage{}, fmt.Errorf("%w: %s", capturedomain.ErrNotImage, img.MIMEType)
	}
	return img, nil
}

// respond はセッションのビューを返すか、エラーを適切なステータスに変換します。
func (h *SessionHandler) respond(c *gin.Context, status int, s *entity.Session, err error) {
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "session not found"})
		case errors.Is(err, domain.ErrAnalysisInProgress):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "analysis already in progress"})
		case errors.Is(err, analysisdomain.ErrEmptyImage), errors.Is(err, analysisdomain.ErrImageTooLarge):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "an image file is required"})
		default:
			slog.Error("セッション操作に失敗", "error", err, "session_id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.JSON(status, ToSessionView(usecase.NewView(s), s.UpdatedAt))
}

// ToSessionView は表示内容をAPIレスポンスに変換します。
func ToSessionView(v usecase.View, updatedAt time.Time) api.SessionView {
	id, err := uuid.Parse(v.ID)
	if err != nil {
		slog.Warn("session id is not a UUID", "session_id", v.ID)
	}

	out := api.SessionView{
		Id:        id,
		State:     api.SessionState(v.State),
		HasImage:  v.Image != nil,
		UpdatedAt: updatedAt,
	}
	if v.Image != nil {
		uri := v.Image.DataURI()
		out.Image = &uri
	}
	if v.Result != nil {
		res := dto.ToAnalysisResponse(*v.Result)
		out.Result = &res
	}
	if v.ErrorKind != entity.ErrorKindNone {
		kind := api.SessionErrorKind(v.ErrorKind)
		out.ErrorKind = &kind
	}
	if v.ErrorMessage != "" {
		msg := v.ErrorMessage
		out.ErrorMessage = &msg
	}
	return out
}
