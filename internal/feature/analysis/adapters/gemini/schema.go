package gemini

import "google.golang.org/genai"

func numberSchema() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }
func stringSchema() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

// metricsSchema はGeminiに要求するJSONレスポンスのスキーマです。
var metricsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ticker":             stringSchema(),
		"name":               stringSchema(),
		"currency":           stringSchema(),
		"marketCap":          stringSchema(),
		"priceChangePercent": numberSchema(),
		"rsi":                numberSchema(),
		"ma20":               numberSchema(),
		"previousDay": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"date":        stringSchema(),
				"open":        numberSchema(),
				"high":        numberSchema(),
				"low":         numberSchema(),
				"close":       numberSchema(),
				"average":     numberSchema(),
				"bidHigh":     numberSchema(),
				"askLow":      numberSchema(),
				"buyAverage":  numberSchema(),
				"sellAverage": numberSchema(),
			},
			Required: []string{"date", "open", "high", "low", "close", "average", "buyAverage", "sellAverage"},
		},
		"volumeHistory": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"label":  stringSchema(),
					"volume": numberSchema(),
				},
				Required: []string{"label", "volume"},
			},
		},
	},
	Required: []string{"ticker", "name", "currency", "marketCap", "priceChangePercent", "rsi", "ma20", "previousDay", "volumeHistory"},
}
