// Package usecase はdashboardフィーチャーのビジネスロジック（検索・並び替えの状態遷移）を実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	analysisentity "stockscope/internal/feature/analysis/domain/entity"
	analysisusecase "stockscope/internal/feature/analysis/usecase"
	"stockscope/internal/feature/dashboard/domain/entity"
)

// BatchFailureMessage はバッチ失敗時にユーザーへ表示する唯一のメッセージです。
const BatchFailureMessage = "株価データの取得中にエラーが発生しました。銘柄コードが正しいか確認してください。"

// lockStripes はセッションごとの排他に使うミューテックスの数です。
const lockStripes = 64

// DefaultLoadingTimeout は完了しないまま読み込み中と見なす上限です。
// これを超えた状態は読み込み時に失敗として扱い、再検索できるようにします。
const DefaultLoadingTimeout = 10 * time.Minute

// ErrInvalidSortKey は未知の並び替えキーが指定されたことを表します。
var ErrInvalidSortKey = errors.New("invalid sort key")

// StateRepository はセッションごとのダッシュボード状態を保存します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type StateRepository interface {
	// Load はセッションの状態を返します。存在しない場合は初期状態を返します。
	Load(ctx context.Context, sessionID string) (entity.State, error)
	// Save はセッションの状態を丸ごと置き換えます。
	Save(ctx context.Context, sessionID string, state entity.State) error
}

// BatchAnalyzer は複数銘柄をまとめて分析します。
type BatchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, tickers []string) ([]analysisentity.AnalysisResult, error)
}

// DashboardUsecase はセッションの状態コンテナに対する遷移を提供します。
type DashboardUsecase struct {
	repo           StateRepository
	analyzer       BatchAnalyzer
	loadingTimeout time.Duration
	now            func() time.Time
	locks          [lockStripes]sync.Mutex
	inflight       sync.WaitGroup
}

// NewDashboardUsecase はDashboardUsecaseの新しいインスタンスを生成します。
// loadingTimeout が0以下の場合は DefaultLoadingTimeout を使用します。
func NewDashboardUsecase(repo StateRepository, analyzer BatchAnalyzer, loadingTimeout time.Duration) *DashboardUsecase {
	if loadingTimeout <= 0 {
		loadingTimeout = DefaultLoadingTimeout
	}
	return &DashboardUsecase{repo: repo, analyzer: analyzer, loadingTimeout: loadingTimeout, now: time.Now}
}

func (u *DashboardUsecase) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &u.locks[h.Sum32()%lockStripes]
}

// update はセッションの状態を読み込み、fn で遷移させて保存します。
func (u *DashboardUsecase) update(ctx context.Context, sessionID string, fn func(entity.State) entity.State) (entity.State, error) {
	mu := u.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	cur, err := u.repo.Load(ctx, sessionID)
	if err != nil {
		return entity.State{}, fmt.Errorf("load dashboard state: %w", err)
	}
	next := fn(cur)
	if err := u.repo.Save(ctx, sessionID, next); err != nil {
		return entity.State{}, fmt.Errorf("save dashboard state: %w", err)
	}
	return next, nil
}

// State はセッションの現在の状態を返します。
// 期限を過ぎても読み込み中のままの状態は失敗として保存し直します。
func (u *DashboardUsecase) State(ctx context.Context, sessionID string) (entity.State, error) {
	st, err := u.repo.Load(ctx, sessionID)
	if err != nil {
		return entity.State{}, fmt.Errorf("load dashboard state: %w", err)
	}
	if !st.Expired(u.now(), u.loadingTimeout) {
		return st, nil
	}

	slog.Warn("batch did not finish in time, marking as failed", "session", sessionID, "seq", st.Seq, "started_at", st.StartedAt)
	return u.update(ctx, sessionID, func(s entity.State) entity.State {
		if !s.Expired(u.now(), u.loadingTimeout) {
			return s
		}
		next, _ := s.Fail(s.Seq, BatchFailureMessage)
		return next
	})
}

// Submit は入力を解析してバッチ分析を実行し、完了後の状態を返します。
// 銘柄が1つもない場合は何もせず現在の状態を返します。
// 開始時点で前回の結果とエラーを消去し、完了時には自分のバッチが最新である場合のみ結果を反映します。
func (u *DashboardUsecase) Submit(ctx context.Context, sessionID, raw string) (entity.State, error) {
	tickers := analysisusecase.ParseTickers(raw)
	if len(tickers) == 0 {
		return u.State(ctx, sessionID)
	}

	_, seq, err := u.begin(ctx, sessionID, raw)
	if err != nil {
		return entity.State{}, err
	}
	// ブラウザが切断しても実行中のバッチは取り消さない
	return u.finish(context.WithoutCancel(ctx), sessionID, seq, tickers)
}

// SubmitAsync はバッチの開始（読み込み中状態の保存）までを行い、分析はバックグラウンドで実行します。
// 返す状態は読み込み中です。完了はセッションの状態に反映され、Wait で待機できます。
func (u *DashboardUsecase) SubmitAsync(ctx context.Context, sessionID, raw string) (entity.State, error) {
	tickers := analysisusecase.ParseTickers(raw)
	if len(tickers) == 0 {
		return u.State(ctx, sessionID)
	}

	started, seq, err := u.begin(ctx, sessionID, raw)
	if err != nil {
		return entity.State{}, err
	}

	batchCtx := context.WithoutCancel(ctx)
	u.inflight.Add(1)
	go func() {
		defer u.inflight.Done()
		if _, err := u.finish(batchCtx, sessionID, seq, tickers); err != nil {
			slog.Error("background batch could not be stored", "session", sessionID, "seq", seq, "error", err)
		}
	}()
	return started, nil
}

// Wait はバックグラウンドで実行中のバッチがすべて完了するか ctx が終了するまで待機します。
func (u *DashboardUsecase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		u.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// begin は新しいバッチを開始した状態を保存し、その状態とバッチ番号を返します。
func (u *DashboardUsecase) begin(ctx context.Context, sessionID, raw string) (entity.State, uint64, error) {
	var seq uint64
	st, err := u.update(ctx, sessionID, func(s entity.State) entity.State {
		next, n := s.Begin(raw, u.now())
		seq = n
		return next
	})
	return st, seq, err
}

// finish はバッチを実行し、結果をセッションに反映します。
// 反映の保存に失敗した場合は、読み込み中のまま残らないよう失敗状態の保存を再試行します。
func (u *DashboardUsecase) finish(ctx context.Context, sessionID string, seq uint64, tickers []string) (entity.State, error) {
	results, batchErr := u.analyzer.AnalyzeBatch(ctx, tickers)

	applied := false
	st, err := u.update(ctx, sessionID, func(s entity.State) entity.State {
		var next entity.State
		if batchErr != nil {
			next, applied = s.Fail(seq, BatchFailureMessage)
		} else {
			next, applied = s.Complete(seq, results)
		}
		return next
	})
	if err != nil {
		slog.Error("failed to store batch outcome", "session", sessionID, "seq", seq, "error", err)
		if _, ferr := u.update(ctx, sessionID, func(s entity.State) entity.State {
			next, _ := s.Fail(seq, BatchFailureMessage)
			return next
		}); ferr != nil {
			slog.Error("failed to clear loading state", "session", sessionID, "seq", seq, "error", ferr)
		}
		return entity.State{}, err
	}

	if !applied {
		slog.Info("stale batch discarded", "session", sessionID, "seq", seq, "latest", st.Seq)
	} else if batchErr != nil {
		slog.Error("dashboard batch failed", "session", sessionID, "seq", seq, "error", batchErr)
	}
	return st, nil
}

// ToggleSort は並び替えキーを切り替えた状態を返します。
func (u *DashboardUsecase) ToggleSort(ctx context.Context, sessionID string, key entity.SortKey) (entity.State, error) {
	if !key.Valid() {
		return entity.State{}, fmt.Errorf("%w: %q", ErrInvalidSortKey, key)
	}
	return u.update(ctx, sessionID, func(s entity.State) entity.State {
		return s.ToggleSort(key)
	})
}
