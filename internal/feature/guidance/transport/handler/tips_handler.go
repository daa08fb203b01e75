// Package handler はguidanceフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calorie_backend/internal/api"
	"calorie_backend/internal/feature/guidance/domain"
)

// TipsHandler は撮影のコツを返します。
type TipsHandler struct{}

// NewTipsHandler はTipsHandlerの新しいインスタンスを生成します。
func NewTipsHandler() *TipsHandler {
	return &TipsHandler{}
}

// List は撮影のコツと注意書きを返します。
//
// エンドポイント: GET /v1/tips
func (h *TipsHandler) List(c *gin.Context) {
	tips := domain.Tips()
	res := api.TipsResponse{
		Tips:     make([]api.Tip, 0, len(tips)),
		Reminder: domain.Reminder,
	}
	for _, t := range tips {
		res.Tips = append(res.Tips, api.Tip{Title: t.Title, Body: t.Body})
	}
	c.JSON(http.StatusOK, res)
}
