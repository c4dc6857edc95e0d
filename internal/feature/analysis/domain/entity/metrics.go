// Package entity はanalysisフィーチャーのドメインモデルを定義します。
package entity

// VolumePoint は期間ラベルと出来高の組です（例: "1月", 1.2e8）。
type VolumePoint struct {
	Label  string  // 期間ラベル
	Volume float64 // 出来高
}

// PreviousDaySnapshot は直近の取引日の価格情報です。受信後は変更しません。
type PreviousDaySnapshot struct {
	Date        string
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Average     float64
	BidHigh     Optional[float64] // 買い気配の最高値
	AskLow      Optional[float64] // 売り気配の最安値
	BuyAverage  Optional[float64] // 買い平均約定価格
	SellAverage Optional[float64] // 売り平均約定価格
}

// StockMetrics はAIサービスが1銘柄について返す指標一式です。
type StockMetrics struct {
	Ticker             string
	Name               string
	Currency           string
	MarketCap          string // 時価総額の表記（例: "3.2T USD"）
	PriceChangePercent float64
	RSI                float64 // RSI(14)
	MA20               float64 // 20日移動平均
	PreviousDay        PreviousDaySnapshot
	VolumeHistory      []VolumePoint // 約6か月分、受信順のまま保持
}

// SourceCitation はAIの回答根拠となった参照元です。
type SourceCitation struct {
	Title string
	URI   string
}

// AnalysisResult は1銘柄の分析結果と参照元の組です。生成後は変更しません。
type AnalysisResult struct {
	Metrics StockMetrics
	Sources []SourceCitation
}
