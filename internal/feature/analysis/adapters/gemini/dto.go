package gemini

import (
	"errors"
	"fmt"

	"stockscope/internal/feature/analysis/domain/entity"
)

// metricsResponse はGeminiが返すJSONをデコードするためのDTOです。
// スキーマで必須としたフィールドも欠落しうるため、数値はすべてポインタで受け取ります。
type metricsResponse struct {
	Ticker             *string  `json:"ticker"`
	Name               *string  `json:"name"`
	Currency           *string  `json:"currency"`
	MarketCap          *string  `json:"marketCap"`
	PriceChangePercent *float64 `json:"priceChangePercent"`
	RSI                *float64 `json:"rsi"`
	MA20               *float64 `json:"ma20"`
	PreviousDay        *struct {
		Date        *string  `json:"date"`
		Open        *float64 `json:"open"`
		High        *float64 `json:"high"`
		Low         *float64 `json:"low"`
		Close       *float64 `json:"close"`
		Average     *float64 `json:"average"`
		BidHigh     *float64 `json:"bidHigh"`
		AskLow      *float64 `json:"askLow"`
		BuyAverage  *float64 `json:"buyAverage"`
		SellAverage *float64 `json:"sellAverage"`
	} `json:"previousDay"`
	VolumeHistory []struct {
		Label  *string  `json:"label"`
		Volume *float64 `json:"volume"`
	} `json:"volumeHistory"`
}

// errMissingField は必須フィールドが欠落していることを表します。
var errMissingField = errors.New("missing required field")

// toEntity はDTOをドメインエンティティに変換します。必須フィールドの欠落はエラーとします。
func (r *metricsResponse) toEntity() (entity.StockMetrics, error) {
	var missing []string
	str := func(name string, p *string) string {
		if p == nil {
			missing = append(missing, name)
			return ""
		}
		return *p
	}
	num := func(name string, p *float64) float64 {
		if p == nil {
			missing = append(missing, name)
			return 0
		}
		return *p
	}

	m := entity.StockMetrics{
		Ticker:             str("ticker", r.Ticker),
		Name:               str("name", r.Name),
		Currency:           str("currency", r.Currency),
		MarketCap:          str("marketCap", r.MarketCap),
		PriceChangePercent: num("priceChangePercent", r.PriceChangePercent),
		RSI:                num("rsi", r.RSI),
		MA20:               num("ma20", r.MA20),
	}

	if pd := r.PreviousDay; pd == nil {
		missing = append(missing, "previousDay")
	} else {
		// buyAverage/sellAverage はスキーマ上必須だが、表示計算では欠落を0として扱う
		m.PreviousDay = entity.PreviousDaySnapshot{
			Date:        str("previousDay.date", pd.Date),
			Open:        num("previousDay.open", pd.Open),
			High:        num("previousDay.high", pd.High),
			Low:         num("previousDay.low", pd.Low),
			Close:       num("previousDay.close", pd.Close),
			Average:     num("previousDay.average", pd.Average),
			BidHigh:     entity.FromPtr(pd.BidHigh),
			AskLow:      entity.FromPtr(pd.AskLow),
			BuyAverage:  entity.FromPtr(pd.BuyAverage),
			SellAverage: entity.FromPtr(pd.SellAverage),
		}
	}

	if r.VolumeHistory == nil {
		missing = append(missing, "volumeHistory")
	}
	m.VolumeHistory = make([]entity.VolumePoint, 0, len(r.VolumeHistory))
	for i, v := range r.VolumeHistory {
		m.VolumeHistory = append(m.VolumeHistory, entity.VolumePoint{
			Label:  str(fmt.Sprintf("volumeHistory[%d].label", i), v.Label),
			Volume: num(fmt.Sprintf("volumeHistory[%d].volume", i), v.Volume),
		})
	}

	if len(missing) > 0 {
		return entity.StockMetrics{}, fmt.Errorf("%w: %v", errMissingField, missing)
	}
	return m, nil
}
