package presenter

import (
	analysisentity "stockscope/internal/feature/analysis/domain/entity"
	"stockscope/internal/feature/dashboard/domain/entity"
)

// Row は1件の結果と表示用の派生値。
type Row struct {
	Result     analysisentity.AnalysisResult
	Spread     float64
	SpreadSign Sign
	ChangeSign Sign
	RSIZone    RSIZone
	TopSources []analysisentity.SourceCitation
}

// View はダッシュボード状態の表示用モデル。
type View struct {
	Phase         entity.Phase
	Loading       bool
	Query         string
	Error         string
	SortKey       entity.SortKey
	SortDirection entity.SortDirection
	Mode          Mode
	Rows          []Row
}

// NewRow は r の表示用の値を導出する。
func NewRow(r analysisentity.AnalysisResult) Row {
	spread := Spread(r.Metrics.PreviousDay)
	return Row{
		Result:     r,
		Spread:     spread,
		SpreadSign: SignOf(spread),
		ChangeSign: SignOf(r.Metrics.PriceChangePercent),
		RSIZone:    ZoneOf(r.Metrics.RSI),
		TopSources: TopSources(r, MaxDisplayedSources),
	}
}

// Present は s の表示用モデルを組み立てる。行は現在のソートキーと方向に従う。
func Present(s entity.State) View {
	sorted := Sort(s.Results, s.SortKey, s.SortDirection)
	rows := make([]Row, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, NewRow(r))
	}
	return View{
		Phase:         s.Phase(),
		Loading:       s.Loading,
		Query:         s.Query,
		Error:         s.Error,
		SortKey:       s.SortKey,
		SortDirection: s.SortDirection,
		Mode:          ModeOf(s.Results),
		Rows:          rows,
	}
}
