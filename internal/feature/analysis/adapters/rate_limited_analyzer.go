// Package adapters はanalysisフィーチャーのアダプター共通部品を提供します。
package adapters

import (
	"context"
	"fmt"

	"stockscope/internal/feature/analysis/domain/entity"
	"stockscope/internal/feature/analysis/usecase"
)

// Limiter は呼び出し頻度の制御を抽象化します。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimitedAnalyzer は StockAnalyzer をラップし、外部APIの呼び出し頻度を制限します。
type RateLimitedAnalyzer struct {
	inner   usecase.StockAnalyzer
	limiter Limiter
}

var _ usecase.StockAnalyzer = (*RateLimitedAnalyzer)(nil)

// NewRateLimitedAnalyzer はRateLimitedAnalyzerの新しいインスタンスを生成します。
func NewRateLimitedAnalyzer(inner usecase.StockAnalyzer, limiter Limiter) *RateLimitedAnalyzer {
	return &RateLimitedAnalyzer{inner: inner, limiter: limiter}
}

// Analyze は枠が空くまで待機してから分析を実行します。
func (a *RateLimitedAnalyzer) Analyze(ctx context.Context, ticker string) (*entity.AnalysisResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", ticker, err)
	}
	return a.inner.Analyze(ctx, ticker)
}
