package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stockscope/internal/app/di"
	"stockscope/internal/app/router"
	analysishandler "stockscope/internal/feature/analysis/transport/handler"
	analysisusecase "stockscope/internal/feature/analysis/usecase"
	dashboardhandler "stockscope/internal/feature/dashboard/transport/handler"
	"stockscope/internal/feature/dashboard/transport/web"
	dashboardusecase "stockscope/internal/feature/dashboard/usecase"
	"stockscope/internal/platform/config"
	"stockscope/internal/platform/logging"
	infraredis "stockscope/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis（未設定または接続失敗時はメモリ上でセッション状態を保持）
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.RedisAddr(), cfg.RedisPassword); err != nil {
			slog.Warn("Redis unavailable. Keeping session state in memory.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("Failed to close Redis client", "error", err)
				}
			}()
		}
	}

	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set. Falling back to Vertex AI / ADC settings from the environment.")
	}

	// Adapter
	analyzer, err := di.NewAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	stateRepo := di.NewStateRepository(rdb, cfg.SessionTTL)

	// Usecase
	analysisUC := analysisusecase.NewAnalysisUsecase(analyzer, cfg.MaxConcurrency)
	dashboardUC := dashboardusecase.NewDashboardUsecase(stateRepo, analysisUC, cfg.LoadingTimeout)

	// Handler
	analysisH := analysishandler.NewAnalysisHandler(analysisUC)
	dashboardH := dashboardhandler.NewDashboardHandler(dashboardUC)

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}

	// ルータ生成
	r := router.NewRouter(tmpl, cfg.SessionTTL, dashboardH, analysisH)

	// 検索は全銘柄の分析完了まで応答しないため WriteTimeout は設定しない
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "model", cfg.GeminiModel, "redis", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// フォームから開始した分析の完了を待つ
	if err := dashboardUC.Wait(shutdownCtx); err != nil {
		slog.Warn("background batches still running at shutdown", "error", err)
	}
	return nil
}
