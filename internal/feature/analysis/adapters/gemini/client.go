// Package gemini はGoogle Gemini API（Google検索グラウンディング付き）を使用した銘柄分析クライアントを提供します。
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"stockscope/internal/feature/analysis/domain/entity"
	"stockscope/internal/feature/analysis/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-3-flash-preview"
	// DefaultSourceTitle はタイトルのない参照元に付けるラベルです。
	DefaultSourceTitle = "参考ソース"
	// AnalysisPromptTemplate は銘柄分析のプロンプトテンプレートです。
	AnalysisPromptTemplate = `銘柄コード "%s" の株式を分析してください。
1. 前営業日の価格データ（始値、高値、安値、終値）を調べてください。
2. 前営業日の買い・売りの最安値と最高値、および推定される買い平均・売り平均約定価格を調べてください。
3. テクニカル指標として、現在のRSI（14日）と20日移動平均線（MA20）を計算してください。
4. 市場データとして、現在の時価総額と前営業日の騰落率（%%）を取得してください。
5. 過去6か月の出来高推移データを提供してください。

指定されたJSON形式で返してください。内容は日本語で記述してください。`
)

// Config はGeminiAnalyzerの設定を保持します。
type Config struct {
	APIKey  string       // 空の場合は環境変数（GOOGLE_GENAI_USE_VERTEXAI など）とADCを使用
	Model   string       // 空の場合は DefaultModel
	BaseURL string       // APIエンドポイントの上書き（テスト・プロキシ用）
	Client  *http.Client // 外部API呼び出し用のHTTPクライアント
}

// GeminiAnalyzer はGoogle Gemini APIを使用して銘柄の指標を取得します。
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// GeminiAnalyzerがStockAnalyzerを実装していることをコンパイル時に検証します。
var _ usecase.StockAnalyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer はGeminiAnalyzerの新しいインスタンスを生成します。
func NewGeminiAnalyzer(ctx context.Context, cfg Config) (*GeminiAnalyzer, error) {
	cc := &genai.ClientConfig{
		HTTPClient:  cfg.Client,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

// generateConfig はGoogle検索ツールとJSONスキーマを指定した生成設定を返します。
func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   metricsSchema,
	}
}

// Analyze は銘柄コードの指標と参照元を取得します。
func (g *GeminiAnalyzer) Analyze(ctx context.Context, ticker string) (*entity.AnalysisResult, error) {
	prompt := fmt.Sprintf(AnalysisPromptTemplate, ticker)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), generateConfig())
	if err != nil {
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	metrics, err := decodeMetrics(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("gemini response for %q: %w", ticker, err)
	}

	return &entity.AnalysisResult{
		Metrics: metrics,
		Sources: extractSources(resp),
	}, nil
}

// decodeMetrics はレスポンス本文のJSONを指標に変換します。
func decodeMetrics(text string) (entity.StockMetrics, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entity.StockMetrics{}, fmt.Errorf("empty response text")
	}
	var body metricsResponse
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		return entity.StockMetrics{}, fmt.Errorf("decode response: %w", err)
	}
	return body.toEntity()
}

// extractSources は最初の候補のグラウンディングメタデータから参照元を抽出します。
// Web参照を持たない、またはURIが空のチャンクは除外します。
func extractSources(resp *genai.GenerateContentResponse) []entity.SourceCitation {
	sources := []entity.SourceCitation{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return sources
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return sources
	}
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = DefaultSourceTitle
		}
		sources = append(sources, entity.SourceCitation{Title: title, URI: chunk.Web.URI})
	}
	return sources
}
