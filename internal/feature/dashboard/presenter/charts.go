package presenter

import (
	analysisentity "stockscope/internal/feature/analysis/domain/entity"
)

// ComparisonRow は1期間分のラベルと系列ごとの出来高。並びは ComparisonTable.Tickers に対応する。
type ComparisonRow struct {
	Label   string
	Volumes []float64
}

// ComparisonTable は複数銘柄の出来高チャート用に期間をそろえたデータ。
type ComparisonTable struct {
	Tickers []string
	Rows    []ComparisonRow
}

// VolumeSeries は単一銘柄の出来高チャート用データ。受信順を保持する。
func VolumeSeries(r analysisentity.AnalysisResult) []analysisentity.VolumePoint {
	return r.Metrics.VolumeHistory
}

// BuildComparisonTable は各結果の出来高履歴を期間ラベルでそろえる。
// ラベルは初出順。系列に存在しないラベルは0になる。
// 同じティッカーが重複しても別の列として扱う。
func BuildComparisonTable(results []analysisentity.AnalysisResult) ComparisonTable {
	table := ComparisonTable{Tickers: make([]string, 0, len(results))}
	index := map[string]int{}

	for _, r := range results {
		table.Tickers = append(table.Tickers, r.Metrics.Ticker)
		for _, p := range r.Metrics.VolumeHistory {
			if _, ok := index[p.Label]; ok {
				continue
			}
			index[p.Label] = len(table.Rows)
			table.Rows = append(table.Rows, ComparisonRow{Label: p.Label, Volumes: make([]float64, len(results))})
		}
	}

	for col, r := range results {
		seen := map[string]bool{}
		for _, p := range r.Metrics.VolumeHistory {
			// 同一系列内で重複したラベルは最初の値を採用
			if seen[p.Label] {
				continue
			}
			seen[p.Label] = true
			table.Rows[index[p.Label]].Volumes[col] = p.Volume
		}
	}
	return table
}
