package router

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	analysishandler "stockscope/internal/feature/analysis/transport/handler"
	dashboardhandler "stockscope/internal/feature/dashboard/transport/handler"
	"stockscope/internal/platform/http/handler"
	"stockscope/internal/platform/http/middleware"
)

func NewRouter(tmpl *template.Template, sessionTTL time.Duration,
	dashboard *dashboardhandler.DashboardHandler, analysis *analysishandler.AnalysisHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.SetHTMLTemplate(tmpl)

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)

	// 銘柄の一括分析（セッション不要）
	r.POST("/v1/analyze", analysis.Analyze)

	// セッション単位のダッシュボード
	// middleware.Session() でセッションIDのCookieを発行・延長する
	s := r.Group("/")
	s.Use(middleware.Session(sessionTTL))
	{
		// HTML画面
		s.GET("/", dashboard.Page)
		s.POST("/search", dashboard.Search)
		s.POST("/sort", dashboard.Sort)

		// JSON API
		s.GET("/v1/dashboard", dashboard.Get)
		s.POST("/v1/dashboard/search", dashboard.SearchJSON)
		s.POST("/v1/dashboard/sort", dashboard.SortJSON)
		s.GET("/v1/dashboard/charts", dashboard.Charts)
	}

	return r
}
