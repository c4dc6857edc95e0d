// Package entity はdashboardフィーチャーの状態モデルと状態遷移を定義します。
package entity

import (
	"time"

	analysisentity "stockscope/internal/feature/analysis/domain/entity"
)

// SortKey は結果の並び替えキーです。
type SortKey string

const (
	SortByTicker SortKey = "ticker"
	SortByClose  SortKey = "close"
	SortByChange SortKey = "change"
	SortByRSI    SortKey = "rsi"
)

// Valid はキーが既知の値であるかを返します。
func (k SortKey) Valid() bool {
	switch k {
	case SortByTicker, SortByClose, SortByChange, SortByRSI:
		return true
	}
	return false
}

// SortDirection は並び替えの方向です。
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Phase はダッシュボードの状態（idle → loading → success/error）です。
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// State は1セッション分のダッシュボード状態です。
// 値として扱い、遷移のたびに新しい State で丸ごと置き換えます。
type State struct {
	Seq           uint64 // 最後に発行したバッチ番号
	Query         string
	Loading       bool
	StartedAt     time.Time // 最後のバッチの開始時刻
	Results       []analysisentity.AnalysisResult
	Error         string
	SortKey       SortKey
	SortDirection SortDirection
}

// InitialState は新規セッションの状態を返します。
func InitialState() State {
	return State{SortKey: SortByTicker, SortDirection: Ascending}
}

// Phase は現在の状態から表示フェーズを導出します。
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseError
	case len(s.Results) > 0:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// Begin は新しいバッチの開始を表す状態と、そのバッチ番号を返します。
// 前回のエラーと結果は開始時点で消去します。
func (s State) Begin(query string, now time.Time) (State, uint64) {
	next := s
	next.Seq = s.Seq + 1
	next.Query = query
	next.Loading = true
	next.StartedAt = now
	next.Error = ""
	next.Results = nil
	return next, next.Seq
}

// Complete はバッチ seq の成功結果を適用します。
// seq が最新でない場合は状態を変更せず false を返します。
func (s State) Complete(seq uint64, results []analysisentity.AnalysisResult) (State, bool) {
	if seq != s.Seq {
		return s, false
	}
	next := s
	next.Loading = false
	next.Error = ""
	next.Results = results
	return next, true
}

// Fail はバッチ seq の失敗を適用します。結果は消去し、メッセージを1つだけ保持します。
func (s State) Fail(seq uint64, message string) (State, bool) {
	if seq != s.Seq {
		return s, false
	}
	next := s
	next.Loading = false
	next.Error = message
	next.Results = nil
	return next, true
}

// Expired は読み込み中のまま limit を超えて完了していないかを返します。
// 完了の保存に失敗した場合やプロセスが途中で停止した場合に該当します。
func (s State) Expired(now time.Time, limit time.Duration) bool {
	return s.Loading && now.Sub(s.StartedAt) > limit
}

// ToggleSort は並び替えキーを切り替えます。
// 同じキーなら方向を反転し、別のキーなら降順から始めます。
func (s State) ToggleSort(key SortKey) State {
	next := s
	if s.SortKey == key {
		if s.SortDirection == Ascending {
			next.SortDirection = Descending
		} else {
			next.SortDirection = Ascending
		}
		return next
	}
	next.SortKey = key
	next.SortDirection = Descending
	return next
}
