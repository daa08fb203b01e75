// Package openai provides an inference client for OpenAI-compatible chat completion APIs (e.g. Groq).
package openai

import "os"

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
)

// Config holds configuration for the OpenAI-compatible client.
type Config struct {
	APIKey  string // Bearer token
	BaseURL string // e.g. "https://api.groq.com/openai/v1"
	Model   string // vision-capable model name
}

// LoadConfig loads the client configuration from environment variables, filling defaults.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return cfg
}
