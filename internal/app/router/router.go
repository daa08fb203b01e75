package router

import (
	"github.com/gin-gonic/gin"

	analysishandler "calorie_backend/internal/feature/analysis/transport/handler"
	guidancehandler "calorie_backend/internal/feature/guidance/transport/handler"
	journalhandler "calorie_backend/internal/feature/journal/transport/handler"
	sessionhandler "calorie_backend/internal/feature/session/transport/handler"
	platformhandler "calorie_backend/internal/platform/http/handler"
	jwtmw "calorie_backend/internal/platform/jwt"
)

// Handlers はルーティング対象のハンドラー一式です。
type Handlers struct {
	Health   *platformhandler.HealthHandler
	Tips     *guidancehandler.TipsHandler
	Analysis *analysishandler.AnalysisHandler
	Session  *sessionhandler.SessionHandler
	Journal  *journalhandler.JournalHandler
}

// NewRouter はルーターを生成します。middleware（CORSなど）は全ルートの前に適用されます。
func NewRouter(h Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.Default()
	r.Use(middleware...)

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)

	v1 := r.Group("/v1")
	{
		// 認証不要
		v1.GET("/tips", h.Tips.List)
		// ステートレスな一括解析
		v1.POST("/analyze", h.Analysis.Analyze)
		// セッション作成（トークン発行）
		v1.POST("/sessions", h.Session.Create)
		v1.GET("/journal", h.Journal.List)
	}

	// セッション単位のルート
	// トークンのsubがパスの :id と一致する場合のみ通過する
	s := v1.Group("/sessions/:id")
	s.Use(jwtmw.SessionRequired("id"))
	{
		s.GET("", h.Session.Get)
		s.DELETE("", h.Session.Delete)
		s.POST("/image", h.Session.SelectImage)
		s.DELETE("/image", h.Session.ClearImage)
		s.POST("/camera", h.Session.Capture)
		s.POST("/analyze", h.Session.Analyze)
		s.POST("/reanalyze", h.Session.Reanalyze)
		s.POST("/journal", h.Journal.Save)
	}

	return r
}
