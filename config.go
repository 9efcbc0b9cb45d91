package docuvision

import "time"

// Config holds all configuration for the connector.
type Config struct {
	// Chat configures the multimodal chat model used for image reading and
	// scanned-document transcription.
	Chat LLMConfig `json:"chat" yaml:"chat"`

	// Image configures the text-to-image model used for image generation.
	Image LLMConfig `json:"image" yaml:"image"`

	// RenderDPI is the resolution pages are rasterized at. Defaults to 300.
	RenderDPI int `json:"render_dpi" yaml:"render_dpi"`

	// MaxTokens bounds the completion length of a single model call.
	// Defaults to 4096.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// TimeoutSeconds is the per-call timeout around model requests, the
	// only blocking external call in the pipeline. Defaults to 120.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`

	// EnhancePages opt-in: run rendered pages through the OCR enhancement
	// pipeline (resize cap, grayscale, sharpen) before encoding.
	EnhancePages bool `json:"enhance_pages" yaml:"enhance_pages"`
}

// LLMConfig configures a single model endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // openai, gemini, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// DefaultConfig returns a Config with sensible defaults for OpenAI-hosted
// models. API keys still have to be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Chat: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o",
		},
		Image: LLMConfig{
			Provider: "openai",
			Model:    "dall-e-3",
		},
		RenderDPI:      300,
		MaxTokens:      4096,
		TimeoutSeconds: 120,
	}
}

// requestTimeout returns the per-call timeout as a duration.
func (c *Config) requestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// renderDPI returns the rasterization resolution with the default applied.
func (c *Config) renderDPI() float64 {
	if c.RenderDPI <= 0 {
		return 300
	}
	return float64(c.RenderDPI)
}
