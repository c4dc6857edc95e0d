// Package presenter は分析結果を変更せずに表示用の値を導出する。
package presenter

import (
	"cmp"
	"fmt"
	"slices"

	analysisentity "stockscope/internal/feature/analysis/domain/entity"
	"stockscope/internal/feature/dashboard/domain/entity"
)

const (
	// RSI(14) の買われすぎ・売られすぎの閾値
	RSIOverbought = 70.0
	RSIOversold   = 30.0
	// 1枚のカードに表示する出典の上限
	MaxDisplayedSources = 4
)

// Sign は表示用の符号分類。
type Sign string

const (
	Positive Sign = "positive"
	Negative Sign = "negative"
	Neutral  Sign = "neutral"
)

// SignOf は v の符号分類を返す。
func SignOf(v float64) Sign {
	switch {
	case v > 0:
		return Positive
	case v < 0:
		return Negative
	default:
		return Neutral
	}
}

// RSIZone は RSI 値の区分。
type RSIZone string

const (
	Overbought RSIZone = "overbought"
	Oversold   RSIZone = "oversold"
	RSINeutral RSIZone = "neutral"
)

// ZoneOf は rsi の区分を返す。
func ZoneOf(rsi float64) RSIZone {
	switch {
	case rsi > RSIOverbought:
		return Overbought
	case rsi < RSIOversold:
		return Oversold
	default:
		return RSINeutral
	}
}

// Mode は補助的なチャートの表示モード。
type Mode string

const (
	ModeEmpty      Mode = "empty"
	ModeDetail     Mode = "detail"
	ModeComparison Mode = "comparison"
)

// IsComparison は複数銘柄を表示しているかを返す。
func IsComparison(results []analysisentity.AnalysisResult) bool {
	return len(results) > 1
}

// ModeOf は結果件数だけから表示モードを決める。
func ModeOf(results []analysisentity.AnalysisResult) Mode {
	switch {
	case len(results) == 0:
		return ModeEmpty
	case IsComparison(results):
		return ModeComparison
	default:
		return ModeDetail
	}
}

// Spread は売り平均から買い平均を引いた値。平均が無い場合は0として扱う。
func Spread(pd analysisentity.PreviousDaySnapshot) float64 {
	return pd.SellAverage.OrZero() - pd.BuyAverage.OrZero()
}

// Sort は並べ替えたコピーを返す。入力スライスは変更しない。
// 同値の順序は保証しない。
func Sort(results []analysisentity.AnalysisResult, key entity.SortKey, dir entity.SortDirection) []analysisentity.AnalysisResult {
	out := slices.Clone(results)
	slices.SortFunc(out, func(a, b analysisentity.AnalysisResult) int {
		c := compareBy(key, a.Metrics, b.Metrics)
		if dir == entity.Descending {
			return -c
		}
		return c
	})
	return out
}

func compareBy(key entity.SortKey, a, b analysisentity.StockMetrics) int {
	switch key {
	case entity.SortByTicker:
		return cmp.Compare(a.Ticker, b.Ticker)
	case entity.SortByClose:
		return cmp.Compare(a.PreviousDay.Close, b.PreviousDay.Close)
	case entity.SortByChange:
		return cmp.Compare(a.PriceChangePercent, b.PriceChangePercent)
	case entity.SortByRSI:
		return cmp.Compare(a.RSI, b.RSI)
	default:
		return 0
	}
}

// TopSources は r の出典を最大 n 件返す。
func TopSources(r analysisentity.AnalysisResult, n int) []analysisentity.SourceCitation {
	if len(r.Sources) <= n {
		return r.Sources
	}
	return r.Sources[:n]
}

// FormatVolume はチャート軸用に出来高を K/M 付きで整形する。
func FormatVolume(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
