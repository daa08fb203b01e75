package gemini

import "os"

// Config はGemini APIクライアントの設定を保持します。
type Config struct {
	APIKey  string // APIキー（必須）
	Model   string // モデル名（空の場合はDefaultModel）
	BaseURL string // APIエンドポイントの上書き（テスト・プロキシ用）
}

// LoadConfig は環境変数からGemini APIの設定を読み込みます。
func LoadConfig() Config {
	return Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   os.Getenv("GEMINI_MODEL"),
		BaseURL: os.Getenv("GEMINI_BASE_URL"),
	}
}
