// Package dto はOpenAI互換のchat completions APIのリクエスト・レスポンス形状を定義します。
package dto

// ChatCompletionRequest は /chat/completions へのリクエストボディです。
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
}

// Message は1つの会話メッセージです。
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart はテキストまたは画像のいずれかを表します。
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// ChatCompletionResponse はレスポンスのうち利用するフィールドだけを保持します。
type ChatCompletionResponse struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

type Choice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
