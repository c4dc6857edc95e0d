// Package api はHTTP APIのリクエスト/レスポンス型を定義します。
package api

// ErrorResponse はエラー時の共通レスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// AnalyzeRequest は一括分析リクエストです。tickers はカンマ・空白区切りの自由入力です。
type AnalyzeRequest struct {
	Tickers string `json:"tickers"`
}

// VolumePointResponse は出来高の1期間分です。
type VolumePointResponse struct {
	Label  string  `json:"label"`
	Volume float64 `json:"volume"`
}

// PreviousDayResponse は前営業日の価格情報です。未提供の値は省略します。
type PreviousDayResponse struct {
	Date        string   `json:"date"`
	Open        float64  `json:"open"`
	High        float64  `json:"high"`
	Low         float64  `json:"low"`
	Close       float64  `json:"close"`
	Average     float64  `json:"average"`
	BidHigh     *float64 `json:"bidHigh,omitempty"`
	AskLow      *float64 `json:"askLow,omitempty"`
	BuyAverage  *float64 `json:"buyAverage,omitempty"`
	SellAverage *float64 `json:"sellAverage,omitempty"`
}

// SourceResponse はグラウンディングの参照元です。
type SourceResponse struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AnalysisResponse は1銘柄の分析結果です。
type AnalysisResponse struct {
	Ticker             string                `json:"ticker"`
	Name               string                `json:"name"`
	Currency           string                `json:"currency"`
	MarketCap          string                `json:"marketCap"`
	PriceChangePercent float64               `json:"priceChangePercent"`
	RSI                float64               `json:"rsi"`
	MA20               float64               `json:"ma20"`
	PreviousDay        PreviousDayResponse   `json:"previousDay"`
	VolumeHistory      []VolumePointResponse `json:"volumeHistory"`
	Sources            []SourceResponse      `json:"sources"`
}

// DashboardSearchRequest はダッシュボードの検索リクエストです。
type DashboardSearchRequest struct {
	Input string `json:"input"`
}

// DashboardSortRequest はダッシュボードの並び替えリクエストです。
type DashboardSortRequest struct {
	Key string `json:"key" binding:"required,oneof=ticker close change rsi"`
}

// SortResponse は現在の並び替え条件です。
type SortResponse struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// DashboardRowResponse は表示用の派生値を含む1行分の結果です。
type DashboardRowResponse struct {
	AnalysisResponse
	Spread     float64          `json:"spread"`
	SpreadSign string           `json:"spreadSign"`
	ChangeSign string           `json:"changeSign"`
	RSIZone    string           `json:"rsiZone"`
	TopSources []SourceResponse `json:"topSources"`
}

// DashboardResponse はセッションのダッシュボード状態です。
type DashboardResponse struct {
	Phase   string                 `json:"phase"`
	Loading bool                   `json:"loading"`
	Query   string                 `json:"query"`
	Error   string                 `json:"error,omitempty"`
	Sort    SortResponse           `json:"sort"`
	Mode    string                 `json:"mode"`
	Rows    []DashboardRowResponse `json:"rows"`
}

// VolumeSeriesResponse は単一銘柄の出来高推移チャート用データです。
type VolumeSeriesResponse struct {
	Ticker string                `json:"ticker"`
	Points []VolumePointResponse `json:"points"`
}

// ComparisonRowResponse は期間ラベルごとの各銘柄の出来高です。Volumes は Tickers と同じ順序です。
type ComparisonRowResponse struct {
	Label   string    `json:"label"`
	Volumes []float64 `json:"volumes"`
}

// ComparisonResponse は複数銘柄の出来高比較チャート用データです。
type ComparisonResponse struct {
	Tickers []string                `json:"tickers"`
	Rows    []ComparisonRowResponse `json:"rows"`
}

// ChartsResponse はダッシュボードのチャート用データです。mode に応じていずれか一方のみ設定されます。
type ChartsResponse struct {
	Mode       string                `json:"mode"`
	Series     *VolumeSeriesResponse `json:"series,omitempty"`
	Comparison *ComparisonResponse   `json:"comparison,omitempty"`
}
