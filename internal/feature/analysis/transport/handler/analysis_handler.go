// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockscope/internal/api"
	"stockscope/internal/feature/analysis/domain/entity"
	"stockscope/internal/feature/analysis/usecase"
)

// BatchFailureMessage は一括分析失敗時のレスポンスメッセージです。銘柄ごとの詳細は含めません。
const BatchFailureMessage = "株価データの取得中にエラーが発生しました。銘柄コードが正しいか確認してください。"

// AnalysisUsecase は一括分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	AnalyzeBatch(ctx context.Context, tickers []string) ([]entity.AnalysisResult, error)
}

// AnalysisHandler は一括分析のHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler はAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// Analyze は入力された銘柄をまとめて分析し、入力順の結果を返します。
//
// エンドポイント: POST /v1/analyze
// Content-Type: application/json
// 例: {"tickers": "AAPL, TSLA 2330.TW"}
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req api.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("分析リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "リクエストの形式が正しくありません"})
		return
	}

	tickers := usecase.ParseTickers(req.Tickers)
	results, err := h.uc.AnalyzeBatch(c.Request.Context(), tickers)
	if err != nil {
		slog.Error("一括分析に失敗", "error", err, "tickers", tickers)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: BatchFailureMessage})
		return
	}

	out := make([]api.AnalysisResponse, 0, len(results))
	for _, r := range results {
		out = append(out, NewAnalysisResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// NewAnalysisResponse はドメインの分析結果をレスポンスDTOに変換します。
func NewAnalysisResponse(r entity.AnalysisResult) api.AnalysisResponse {
	m := r.Metrics
	pd := m.PreviousDay

	volumes := make([]api.VolumePointResponse, 0, len(m.VolumeHistory))
	for _, v := range m.VolumeHistory {
		volumes = append(volumes, api.VolumePointResponse{Label: v.Label, Volume: v.Volume})
	}

	return api.AnalysisResponse{
		Ticker:             m.Ticker,
		Name:               m.Name,
		Currency:           m.Currency,
		MarketCap:          m.MarketCap,
		PriceChangePercent: m.PriceChangePercent,
		RSI:                m.RSI,
		MA20:               m.MA20,
		PreviousDay: api.PreviousDayResponse{
			Date:        pd.Date,
			Open:        pd.Open,
			High:        pd.High,
			Low:         pd.Low,
			Close:       pd.Close,
			Average:     pd.Average,
			BidHigh:     pd.BidHigh.Ptr(),
			AskLow:      pd.AskLow.Ptr(),
			BuyAverage:  pd.BuyAverage.Ptr(),
			SellAverage: pd.SellAverage.Ptr(),
		},
		VolumeHistory: volumes,
		Sources:       NewSourceResponses(r.Sources),
	}
}

// NewSourceResponses は参照元をレスポンスDTOに変換します。
func NewSourceResponses(sources []entity.SourceCitation) []api.SourceResponse {
	out := make([]api.SourceResponse, 0, len(sources))
	for _, s := range sources {
		out = append(out, api.SourceResponse{Title: s.Title, URI: s.URI})
	}
	return out
}
