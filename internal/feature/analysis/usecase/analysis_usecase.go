// Package usecase はanalysisフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"stockscope/internal/feature/analysis/domain"
	"stockscope/internal/feature/analysis/domain/entity"
)

// StockAnalyzer は1銘柄の指標を外部AIサービスに問い合わせるリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type StockAnalyzer interface {
	// Analyze は銘柄コードから指標と参照元を取得します。
	Analyze(ctx context.Context, ticker string) (*entity.AnalysisResult, error)
}

// AnalysisUsecase は複数銘柄の分析リクエストを並列に発行し、結果を入力順にまとめます。
type AnalysisUsecase struct {
	analyzer       StockAnalyzer
	maxConcurrency int // 0以下は無制限
}

// NewAnalysisUsecase はAnalysisUsecaseの新しいインスタンスを生成します。
func NewAnalysisUsecase(analyzer StockAnalyzer, maxConcurrency int) *AnalysisUsecase {
	return &AnalysisUsecase{analyzer: analyzer, maxConcurrency: maxConcurrency}
}

// AnalyzeBatch は銘柄ごとに独立したリクエストを並列に発行し、すべての完了を待ちます。
// 1銘柄でも失敗した場合はバッチ全体を失敗とし、部分的な結果は返しません。
// 成功時の結果は完了順に関係なく入力と同じ順序で返します。
func (u *AnalysisUsecase) AnalyzeBatch(ctx context.Context, tickers []string) ([]entity.AnalysisResult, error) {
	if len(tickers) == 0 {
		return nil, nil
	}

	for _, t := range tickers {
		if err := ValidateTicker(t); err != nil {
			slog.Warn("invalid ticker in batch", "ticker", t, "error", err)
			return nil, &domain.BatchError{Ticker: t, Err: err}
		}
	}

	results := make([]entity.AnalysisResult, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	if u.maxConcurrency > 0 {
		g.SetLimit(u.maxConcurrency)
	}

	for i, t := range tickers {
		g.Go(func() error {
			res, err := u.analyzer.Analyze(gctx, t)
			if err != nil {
				return &domain.BatchError{Ticker: t, Err: err}
			}
			if res == nil {
				return &domain.BatchError{Ticker: t, Err: domain.ErrEmptyResult}
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("batch analysis failed", "tickers", tickers, "error", err)
		return nil, err
	}

	slog.Info("batch analysis completed", "count", len(results))
	return results, nil
}
