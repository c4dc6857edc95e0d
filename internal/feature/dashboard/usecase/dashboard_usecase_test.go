package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	analysisdomain "stockscope/internal/feature/analysis/domain"
	analysisentity "stockscope/internal/feature/analysis/domain/entity"
	"stockscope/internal/feature/dashboard/adapters"
	"stockscope/internal/feature/dashboard/domain/entity"
	"stockscope/internal/feature/dashboard/usecase"
)

// ErrStore はモックと期待値の間で共有されるセンチネルエラーです。
var ErrStore = errors.New("store error")

// mockBatchAnalyzer はBatchAnalyzerインターフェースのモック実装です。
type mockBatchAnalyzer struct {
	mu                sync.Mutex
	AnalyzeBatchFunc  func(ctx context.Context, tickers []string) ([]analysisentity.AnalysisResult, error)
	AnalyzeBatchCalls int
}

func (m *mockBatchAnalyzer) AnalyzeBatch(ctx context.Context, tickers []string) ([]analysisentity.AnalysisResult, error) {
	m.mu.Lock()
	m.AnalyzeBatchCalls++
	m.mu.Unlock()
	if m.AnalyzeBatchFunc != nil {
		return m.AnalyzeBatchFunc(ctx, tickers)
	}
	return nil, errors.New("AnalyzeBatchFunc is not implemented")
}

func (m *mockBatchAnalyzer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AnalyzeBatchCalls
}

// mockStateRepository はStateRepositoryインターフェースのモック実装です。
type mockStateRepository struct {
	LoadFunc func(ctx context.Context, sessionID string) (entity.State, error)
	SaveFunc func(ctx context.Context, sessionID string, state entity.State) error
}

func (m *mockStateRepository) Load(ctx context.Context, sessionID string) (entity.State, error) {
	return m.LoadFunc(ctx, sessionID)
}

func (m *mockStateRepository) Save(ctx context.Context, sessionID string, state entity.State) error {
	return m.SaveFunc(ctx, sessionID, state)
}

func echoResults(_ context.Context, tickers []string) ([]analysisentity.AnalysisResult, error) {
	out := make([]analysisentity.AnalysisResult, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, analysisentity.AnalysisResult{Metrics: analysisentity.StockMetrics{Ticker: t}})
	}
	return out, nil
}

func TestDashboardUsecase_Submit_EmptyInputIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	analyzer := &mockBatchAnalyzer{AnalyzeBatchFunc: echoResults}
	uc := usecase.NewDashboardUsecase(repo, analyzer, 0)

	prev, err := uc.Submit(ctx, "s1", "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, input := range []string{"", ",, ,"} {
		st, err := uc.Submit(ctx, "s1", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.Seq != prev.Seq || len(st.Results) != 1 || st.Query != "AAPL" {
			t.Errorf("expected prior state to be untouched for %q, got %+v", input, st)
		}
	}
	if analyzer.calls() != 1 {
		t.Errorf("AnalyzeBatch was called %d times, expected 1", analyzer.calls())
	}
}

func TestDashboardUsecase_Submit_Success(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	var gotTickers []string
	analyzer := &mockBatchAnalyzer{
		AnalyzeBatchFunc: func(ctx context.Context, tickers []string) ([]analysisentity.AnalysisResult, error) {
			gotTickers = tickers
			return echoResults(ctx, tickers)
		},
	}
	uc := usecase.NewDashboardUsecase(repo, analyzer, 0)

	st, err := uc.Submit(ctx, "s1", "AAPL, TSLA  2330.TW")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"AAPL", "TSLA", "2330.TW"}
	for i, w := range want {
		if gotTickers[i] != w || st.Results[i].Metrics.Ticker != w {
			t.Fatalf("order mismatch at %d: tickers=%v results=%v", i, gotTickers, st.Results)
		}
	}
	if st.Phase() != entity.PhaseSuccess || st.Loading || st.Error != "" {
		t.Errorf("unexpected state: %+v", st)
	}

	saved, _ := repo.Load(ctx, "s1")
	if saved.Seq != st.Seq || len(saved.Results) != 3 {
		t.Errorf("state was not saved: %+v", saved)
	}
}

// TestDashboardUsecase_Submit_FailureClearsResults は失敗時に結果が消去され、メッセージが1つだけ設定されることを検証します。
func TestDashboardUsecase_Submit_FailureClearsResults(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	fail := false
	analyzer := &mockBatchAnalyzer{
		AnalyzeBatchFunc: func(ctx context.Context, tickers []string) ([]analysisentity.AnalysisResult, error) {
			if fail {
				return nil, &analysisdomain.BatchError{Ticker: tickers[1], Err: errors.New("boom")}
			}
			return echoResults(ctx, tickers)
		},
	}
	uc := usecase.NewDashboardUsecase(repo, analyzer, 0)

	if _, err := uc.Submit(ctx, "s1", "AAPL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fail = true
	st, err := uc.Submit(ctx, "s1", "AAPL TSLA MSFT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Phase() != entity.PhaseError {
		t.Errorf("expected error phase, got %s", st.Phase())
	}
	if len(st.Results) != 0 {
		t.Errorf("expected no partial results, got %v", st.Results)
	}
	if st.Error != usecase.BatchFailureMessage {
		t.Errorf("unexpected error message %q", st.Error)
	}

	// 次の検索でエラーは消える
	fail = false
	st, _ = uc.Submit(ctx, "s1", "AAPL")
	if st.Error != "" || st.Phase() != entity.PhaseSuccess {
		t.Errorf("expected error to be cleared, got %+v", st)
	}
}

// TestDashboardUsecase_Submit_LoadingVisibleWhileInFlight は実行中に loading 状態で結果が消去されていることを検証します。
func TestDashboardUsecase_Submit_LoadingVisibleWhileInFlight(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	started := make(chan struct{})
	release := make(chan struct{})
	analyzer := &mockBatchAnalyzer{
		AnalyzeBatchFunc: func(ctx context.Context, tickers []string) ([]analysisentity.AnalysisResult, error) {
			if tickers[0] == "SLOW" {
				close(started)
				<-release
			}
			return echoResults(ctx, tickers)
		},
	}
	uc := usecase.NewDashboardUsecase(repo, analyzer, 0)

	if _, err := uc.Submit(ctx, "s1", "AAPL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan entity.State)
	go func() {
		st, _ := uc.Submit(ctx, "s1", "SLOW")
		done <- st
	}()

	<-started
	mid, err := uc.State(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mid.Loading || mid.Phase() != entity.PhaseLoading || len(mid.Results) != 0 {
		t.Errorf("expected loading state with cleared results, got %+v", mid)
	}

	close(release)
	final := <-done
	if final.Loading || final.Results[0].Metrics.Ticker != "SLOW" {
		t.Errorf("unexpected final state: %+v", final)
	}
}

// TestDashboardUsecase_Submit_StaleBatchDoesNotOverwrite は遅い古いバッチが新しいバッチの結果を上書きしないことを検証します。
func TestDashboardUsecase_Submit_StaleBatchDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	analyzer := &mockBatchAnalyzer{
		AnalyzeBatchFunc: func(ctx context.Context, tickers []string) ([]analysisentity.AnalysisResult, error) {
			if tickers[0] == "SLOW" {
				close(slowStarted)
				<-releaseSlow
			}
			return echoResults(ctx, tickers)
		},
	}
	uc := usecase.NewDashboardUsecase(repo, analyzer, 0)

	slowDone := make(chan entity.State)
	go func() {
		st, _ := uc.Submit(ctx, "s1", "SLOW")
		slowDone <- st
	}()
	<-slowStarted

	fast, err := uc.Submit(ctx, "s1", "FAST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fast.Results[0].Metrics.Ticker != "FAST" {
		t.Fatalf("unexpected fast state: %+v", fast)
	}

	close(releaseSlow)
	<-slowDone

	final, _ := uc.State(ctx, "s1")
	if len(final.Results) != 1 || final.Results[0].Metrics.Ticker != "FAST" {
		t.Errorf("stale batch overwrote newer results: %+v", final.Results)
	}
	if final.Loading {
		t.Errorf("expected loading=false after newest batch completed")
	}
}

func TestDashboardUsecase_Submit_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	uc := usecase.NewDashboardUsecase(repo, &mockBatchAnalyzer{AnalyzeBatchFunc: echoResults}, 0)

	_, _ = uc.Submit(ctx, "a", "AAPL")
	_, _ = uc.Submit(ctx, "b", "TSLA MSFT")

	a, _ := uc.State(ctx, "a")
	b, _ := uc.State(ctx, "b")
	if len(a.Results) != 1 || len(b.Results) != 2 {
		t.Errorf("sessions leaked into each other: a=%v b=%v", a.Results, b.Results)
	}
}

func TestDashboardUsecase_ToggleSort(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	uc := usecase.NewDashboardUsecase(repo, &mockBatchAnalyzer{}, 0)

	st, err := uc.ToggleSort(ctx, "s1", entity.SortByChange)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.SortKey != entity.SortByChange || st.SortDirection != entity.Descending {
		t.Errorf("unexpected sort: %s %s", st.SortKey, st.SortDirection)
	}

	st, _ = uc.ToggleSort(ctx, "s1", entity.SortByChange)
	if st.SortDirection != entity.Ascending {
		t.Errorf("expected direction to flip, got %s", st.SortDirection)
	}

	if _, err := uc.ToggleSort(ctx, "s1", entity.SortKey("volume")); !errors.Is(err, usecase.ErrInvalidSortKey) {
		t.Errorf("expected ErrInvalidSortKey, got %v", err)
	}
}

func TestDashboardUsecase_RepositoryErrors(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		repo *mockStateRepository
	}{
		{
			name: "load fails",
			repo: &mockStateRepository{
				LoadFunc: func(ctx context.Context, sessionID string) (entity.State, error) { return entity.State{}, ErrStore },
				SaveFunc: func(ctx context.Context, sessionID string, state entity.State) error { return nil },
			},
		},
		{
			name: "save fails",
			repo: &mockStateRepository{
				LoadFunc: func(ctx context.Context, sessionID string) (entity.State, error) { return entity.InitialState(), nil },
				SaveFunc: func(ctx context.Context, sessionID string, state entity.State) error { return ErrStore },
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := &mockBatchAnalyzer{AnalyzeBatchFunc: echoResults}
			uc := usecase.NewDashboardUsecase(tc.repo, analyzer, 0)

			if _, err := uc.Submit(ctx, "s1", "AAPL"); !errors.Is(err, ErrStore) {
				t.Errorf("Submit: expected ErrStore, got %v", err)
			}
			if _, err := uc.ToggleSort(ctx, "s1", entity.SortByRSI); !errors.Is(err, ErrStore) {
				t.Errorf("ToggleSort: expected ErrStore, got %v", err)
			}
			if analyzer.calls() != 0 {
				t.Errorf("AnalyzeBatch was called %d times, expected 0", analyzer.calls())
			}
		})
	}
}

// TestDashboardUsecase_Submit_CompletionSaveFailureClearsLoading は完了の保存に失敗しても読み込み中のまま残らないことを検証します。
func TestDashboardUsecase_Submit_CompletionSaveFailureClearsLoading(t *testing.T) {
	ctx := context.Background()
	mem := adapters.NewStateMemory(time.Hour)
	saveCalls := 0
	repo := &mockStateRepository{
		LoadFunc: mem.Load,
		SaveFunc: func(ctx context.Context, sessionID string, state entity.State) error {
			saveCalls++
			// 1回目（開始）は成功、2回目（完了）は失敗、以降は成功
			if saveCalls == 2 {
				return ErrStore
			}
			return mem.Save(ctx, sessionID, state)
		},
	}
	uc := usecase.NewDashboardUsecase(repo, &mockBatchAnalyzer{AnalyzeBatchFunc: echoResults}, 0)

	if _, err := uc.Submit(ctx, "s1", "AAPL"); !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore from Submit, got %v", err)
	}

	st, err := uc.State(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Loading || st.Phase() != entity.PhaseError {
		t.Errorf("session left loading: loading=%v phase=%s", st.Loading, st.Phase())
	}
	if st.Error != usecase.BatchFailureMessage || len(st.Results) != 0 {
		t.Errorf("unexpected state: %+v", st)
	}
}

// TestDashboardUsecase_State_ExpiresAbandonedLoading は完了しなかった読み込み中状態が期限後に失敗扱いになることを検証します。
func TestDashboardUsecase_State_ExpiresAbandonedLoading(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	analyzer := &mockBatchAnalyzer{AnalyzeBatchFunc: echoResults}
	uc := usecase.NewDashboardUsecase(repo, analyzer, 10*time.Minute)

	abandoned, _ := entity.InitialState().Begin("AAPL", time.Now().Add(-time.Hour))
	if err := repo.Save(ctx, "s1", abandoned); err != nil {
		t.Fatalf("seed: %v", err)
	}
	fresh, _ := entity.InitialState().Begin("TSLA", time.Now())
	if err := repo.Save(ctx, "s2", fresh); err != nil {
		t.Fatalf("seed: %v", err)
	}

	st, err := uc.State(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Loading || st.Error != usecase.BatchFailureMessage {
		t.Errorf("expected expired batch to be failed, got %+v", st)
	}
	stored, _ := repo.Load(ctx, "s1")
	if stored.Loading {
		t.Errorf("expired state was not persisted")
	}

	if st, _ := uc.State(ctx, "s2"); !st.Loading {
		t.Errorf("batch within the timeout must stay loading")
	}

	// 期限切れの後も再検索できる
	st, err = uc.Submit(ctx, "s1", "AAPL")
	if err != nil || st.Phase() != entity.PhaseSuccess {
		t.Errorf("resubmission after expiry failed: state=%+v err=%v", st, err)
	}
}

// TestDashboardUsecase_SubmitAsync は開始直後に読み込み中を返し、完了後に結果が反映されることを検証します。
func TestDashboardUsecase_SubmitAsync(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewStateMemory(time.Hour)
	release := make(chan struct{})
	analyzer := &mockBatchAnalyzer{
		AnalyzeBatchFunc: func(ctx context.Context, tickers []string) ([]analysisentity.AnalysisResult, error) {
			<-release
			return echoResults(ctx, tickers)
		},
	}
	uc := usecase.NewDashboardUsecase(repo, analyzer, 0)

	started, err := uc.SubmitAsync(ctx, "s1", "AAPL TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !started.Loading || started.Query != "AAPL TSLA" {
		t.Errorf("expected loading state, got %+v", started)
	}
	if mid, _ := uc.State(ctx, "s1"); !mid.Loading {
		t.Errorf("expected stored state to be loading")
	}

	close(release)
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := uc.Wait(waitCtx); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	final, _ := uc.State(ctx, "s1")
	if final.Loading || len(final.Results) != 2 {
		t.Errorf("unexpected final state: %+v", final)
	}
}

func TestDashboardUsecase_SubmitAsync_EmptyInputIsNoop(t *testing.T) {
	ctx := context.Background()
	analyzer := &mockBatchAnalyzer{AnalyzeBatchFunc: echoResults}
	uc := usecase.NewDashboardUsecase(adapters.NewStateMemory(time.Hour), analyzer, 0)

	st, err := uc.SubmitAsync(ctx, "s1", " , ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Phase() != entity.PhaseIdle {
		t.Errorf("expected idle state, got %s", st.Phase())
	}
	if err := uc.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if analyzer.calls() != 0 {
		t.Errorf("AnalyzeBatch was called %d times, expected 0", analyzer.calls())
	}
}
