// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"time"

	"stockscope/internal/feature/analysis/adapters"
	"stockscope/internal/feature/analysis/adapters/gemini"
	"stockscope/internal/feature/analysis/usecase"
	"stockscope/internal/platform/config"
	infrahttp "stockscope/internal/platform/http"
	"stockscope/internal/shared/ratelimiter"
)

// NewAnalyzer creates a Gemini-backed stock analyzer with its own HTTP client.
// When a per-minute request limit is configured, calls are throttled.
func NewAnalyzer(ctx context.Context, cfg *config.Config) (usecase.StockAnalyzer, error) {
	g, err := gemini.NewGeminiAnalyzer(ctx, gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Client:  infrahttp.NewHTTPClient(cfg.GeminiTimeout),
	})
	if err != nil {
		return nil, err
	}
	if cfg.GeminiRPM <= 0 {
		return g, nil
	}
	return adapters.NewRateLimitedAnalyzer(g, ratelimiter.NewRateLimiter(cfg.GeminiRPM, time.Minute)), nil
}
