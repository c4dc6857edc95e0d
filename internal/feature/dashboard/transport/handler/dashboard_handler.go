// Package handler はdashboardフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockscope/internal/api"
	"stockscope/internal/feature/dashboard/domain/entity"
	"stockscope/internal/feature/dashboard/presenter"
	"stockscope/internal/feature/dashboard/transport/web"
	"stockscope/internal/feature/dashboard/usecase"
	"stockscope/internal/platform/http/middleware"
)

const (
	msgStateFailure = "ダッシュボードの状態を取得できませんでした"
	msgInvalidSort  = "並び替えキーが正しくありません"
	msgInvalidBody  = "リクエストの形式が正しくありません"
)

// DashboardUsecase はダッシュボードのユースケースインターフェースを定義します。
type DashboardUsecase interface {
	State(ctx context.Context, sessionID string) (entity.State, error)
	Submit(ctx context.Context, sessionID, raw string) (entity.State, error)
	SubmitAsync(ctx context.Context, sessionID, raw string) (entity.State, error)
	ToggleSort(ctx context.Context, sessionID string, key entity.SortKey) (entity.State, error)
}

// DashboardHandler はダッシュボード画面とJSON APIのリクエストを処理します。
type DashboardHandler struct {
	uc DashboardUsecase
}

// NewDashboardHandler はDashboardHandlerの新しいインスタンスを生成します。
func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Page はセッションのダッシュボード画面を描画します。
//
// エンドポイント: GET /
func (h *DashboardHandler) Page(c *gin.Context) {
	st, err := h.uc.State(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		slog.Error("failed to load dashboard state", "error", err, "session", middleware.SessionID(c))
		c.String(http.StatusInternalServerError, msgStateFailure)
		return
	}
	c.HTML(http.StatusOK, web.DashboardTemplate, presenter.Present(st))
}

// Search はフォームの銘柄入力で分析を開始し、完了を待たずにダッシュボード画面へリダイレクトします。
// 画面は分析中の表示（送信ボタン無効・自動更新）になり、完了後に結果を表示します。
//
// エンドポイント: POST /search (form: tickers)
func (h *DashboardHandler) Search(c *gin.Context) {
	if _, err := h.uc.SubmitAsync(c.Request.Context(), middleware.SessionID(c), c.PostForm("tickers")); err != nil {
		slog.Error("dashboard search failed", "error", err, "session", middleware.SessionID(c))
		c.String(http.StatusInternalServerError, msgStateFailure)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Sort は並び替えキーを切り替え、ダッシュボード画面へリダイレクトします。
//
// エンドポイント: POST /sort (form または query: key)
func (h *DashboardHandler) Sort(c *gin.Context) {
	key := c.PostForm("key")
	if key == "" {
		key = c.Query("key")
	}
	if _, err := h.uc.ToggleSort(c.Request.Context(), middleware.SessionID(c), entity.SortKey(key)); err != nil {
		if errors.Is(err, usecase.ErrInvalidSortKey) {
			c.String(http.StatusBadRequest, msgInvalidSort)
			return
		}
		slog.Error("dashboard sort failed", "error", err, "session", middleware.SessionID(c))
		c.String(http.StatusInternalServerError, msgStateFailure)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Get はセッションのダッシュボード状態をJSONで返します。
//
// エンドポイント: GET /v1/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	st, err := h.uc.State(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.stateError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewDashboardResponse(presenter.Present(st)))
}

// SearchJSON は銘柄入力で分析を実行し、完了後のダッシュボード状態を返します。
// 分析の失敗は状態の error に格納され、ステータスは 200 のままです。
//
// エンドポイント: POST /v1/dashboard/search
// 例: {"input": "AAPL, TSLA"}
func (h *DashboardHandler) SearchJSON(c *gin.Context) {
	var req api.DashboardSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidBody})
		return
	}
	st, err := h.uc.Submit(c.Request.Context(), middleware.SessionID(c), req.Input)
	if err != nil {
		h.stateError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewDashboardResponse(presenter.Present(st)))
}

// SortJSON は並び替えキーを切り替え、ダッシュボード状態を返します。
//
// エンドポイント: POST /v1/dashboard/sort
// 例: {"key": "rsi"}
func (h *DashboardHandler) SortJSON(c *gin.Context) {
	var req api.DashboardSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidSort})
		return
	}
	st, err := h.uc.ToggleSort(c.Request.Context(), middleware.SessionID(c), entity.SortKey(req.Key))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSortKey) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidSort})
			return
		}
		h.stateError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewDashboardResponse(presenter.Present(st)))
}

// Charts はチャート描画用のデータを返します。
// 1銘柄なら出来高推移、複数銘柄なら出来高比較のデータを返します。
//
// エンドポイント: GET /v1/dashboard/charts
func (h *DashboardHandler) Charts(c *gin.Context) {
	st, err := h.uc.State(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.stateError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewChartsResponse(st))
}

func (h *DashboardHandler) stateError(c *gin.Context, err error) {
	slog.Error("dashboard state error", "error", err, "session", middleware.SessionID(c))
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgStateFailure})
}
