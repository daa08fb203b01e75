package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"calorie_backend/internal/feature/analysis/adapters/openai/dto"
	"calorie_backend/internal/feature/analysis/domain"
	"calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/analysis/usecase"
)

// maxErrorBody はログに残すエラーレスポンス本文の上限です。
const maxErrorBody = 2048

// ChatClient はOpenAI互換のchat completions APIを呼び出すInferenceClient実装です。
type ChatClient struct {
	cfg    Config
	client *http.Client
}

// ChatClientがInferenceClientを実装していることをコンパイル時に検証します。
var _ usecase.InferenceClient = (*ChatClient)(nil)

// NewChatClient は指定された設定とHTTPクライアントでChatClientを生成します。
// APIキーが空の場合は domain.ErrConfiguration を返します。
func NewChatClient(cfg Config, client *http.Client) (*ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &ChatClient{cfg: cfg, client: client}, nil
}

// Analyze は画像と指示文を1つのユーザーメッセージとして送信し、最初の選択肢の本文を返します。
// このプロトコルでは画像はデータURLとして image_url に入れる必要があります。
func (c *ChatClient) Analyze(ctx context.Context, image entity.EncodedImage) (string, error) {
	text, err := c.do(ctx, image)
	if err != nil {
		slog.Error("chat completion request failed", "error", err, "model", c.cfg.Model)
		return "", domain.ErrAnalysisFailed
	}
	return text, nil
}

func (c *ChatClient) do(ctx context.Context, image entity.EncodedImage) (string, error) {
	body, err := json.Marshal(c.buildRequest(image))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return "", fmt.Errorf("chat completions http %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var out dto.ChatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("chat completions: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completions: empty response")
	}
	return out.Choices[0].Message.Content, nil
}

func (c *ChatClient) buildRequest(image entity.EncodedImage) dto.ChatCompletionRequest {
	return dto.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []dto.Message{
			{
				Role: "user",
				Content: []dto.ContentPart{
					{Type: "text", Text: usecase.Instruction},
					{Type: "image_url", ImageURL: &dto.ImageURL{URL: image.DataURI()}},
				},
			},
		},
		Temperature: usecase.Temperature,
		TopP:        usecase.TopP,
		MaxTokens:   usecase.MaxOutputTokens,
	}
}
