// Package gemini はGoogle Gemini APIを使用した食事画像の推論クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"calorie_backend/internal/feature/analysis/domain"
	"calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/analysis/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// GeminiClient はGoogle Gemini APIに画像と指示文を送信します。
type GeminiClient struct {
	client *genai.Client
	model  string
}

// GeminiClientがInferenceClientを実装していることをコンパイル時に検証します。
var _ usecase.InferenceClient = (*GeminiClient)(nil)

// NewGeminiClient はAPIキーを使用してGeminiClientの新しいインスタンスを生成します。
// APIキーが未設定の場合、ネットワークに触れる前に domain.ErrConfiguration を返します。
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", domain.ErrConfiguration)
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Analyze は画像（データURIプレフィックスなしの生バイト）と指示文を送信し、モデルの出力テキストを返します。
// 失敗の詳細はログに残し、呼び出し元には domain.ErrAnalysisFailed だけを返します。
func (g *GeminiClient) Analyze(ctx context.Context, image entity.EncodedImage) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image.Data, image.ContentType()),
			genai.NewPartFromText(usecase.Instruction),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, generationConfig())
	if err != nil {
		slog.Error("gemini API request failed", "error", err, "model", g.model)
		return "", domain.ErrAnalysisFailed
	}

	text := resp.Text()
	if text == "" {
		slog.Error("gemini API returned no text", "model", g.model)
		return "", domain.ErrAnalysisFailed
	}
	return text, nil
}

func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](usecase.Temperature),
		TopP:            genai.Ptr[float32](usecase.TopP),
		TopK:            genai.Ptr[float32](usecase.TopK),
		MaxOutputTokens: usecase.MaxOutputTokens,
	}
}
