package handler

import (
	"stockscope/internal/api"
	analysisentity "stockscope/internal/feature/analysis/domain/entity"
	analysishandler "stockscope/internal/feature/analysis/transport/handler"
	"stockscope/internal/feature/dashboard/domain/entity"
	"stockscope/internal/feature/dashboard/presenter"
)

// NewDashboardResponse はビューをレスポンスDTOに変換します。
func NewDashboardResponse(v presenter.View) api.DashboardResponse {
	rows := make([]api.DashboardRowResponse, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, api.DashboardRowResponse{
			AnalysisResponse: analysishandler.NewAnalysisResponse(r.Result),
			Spread:           r.Spread,
			SpreadSign:       string(r.SpreadSign),
			ChangeSign:       string(r.ChangeSign),
			RSIZone:          string(r.RSIZone),
			TopSources:       analysishandler.NewSourceResponses(r.TopSources),
		})
	}
	return api.DashboardResponse{
		Phase:   string(v.Phase),
		Loading: v.Loading,
		Query:   v.Query,
		Error:   v.Error,
		Sort:    api.SortResponse{Key: string(v.SortKey), Direction: string(v.SortDirection)},
		Mode:    string(v.Mode),
		Rows:    rows,
	}
}

// NewChartsResponse は状態からチャート用データを作ります。
// 比較チャートの列は入力順です。
func NewChartsResponse(st entity.State) api.ChartsResponse {
	mode := presenter.ModeOf(st.Results)
	out := api.ChartsResponse{Mode: string(mode)}

	switch mode {
	case presenter.ModeDetail:
		r := st.Results[0]
		out.Series = &api.VolumeSeriesResponse{
			Ticker: r.Metrics.Ticker,
			Points: volumePoints(presenter.VolumeSeries(r)),
		}
	case presenter.ModeComparison:
		table := presenter.BuildComparisonTable(st.Results)
		rows := make([]api.ComparisonRowResponse, 0, len(table.Rows))
		for _, row := range table.Rows {
			rows = append(rows, api.ComparisonRowResponse{Label: row.Label, Volumes: row.Volumes})
		}
		out.Comparison = &api.ComparisonResponse{Tickers: table.Tickers, Rows: rows}
	}
	return out
}

func volumePoints(points []analysisentity.VolumePoint) []api.VolumePointResponse {
	out := make([]api.VolumePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, api.VolumePointResponse{Label: p.Label, Volume: p.Volume})
	}
	return out
}
