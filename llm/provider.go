package llm

import (
	"context"
	"fmt"
)

// Provider is the interface for chat-capable model interactions. Requests
// may carry image content; providers that cannot handle images reject them
// server-side.
type Provider interface {
	// GenerateText sends a chat request and returns the generated text
	// with token accounting.
	GenerateText(ctx context.Context, req Request) (*Response, error)
}

// ImageProvider is the interface for text-to-image generation.
type ImageProvider interface {
	// GenerateImage issues a single generation request and returns the
	// URL of the hosted result.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Request is a chat completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message represents a chat message composed of one or more content parts.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is either text or an image reference in a message.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries a remote or data: URL reference to an image.
type ImageURL struct {
	URL string `json:"url"`
}

// Response is the result of a chat completion.
type Response struct {
	Content      string
	Model        string
	FinishReason string
	Usage        Usage
}

// Usage records the token consumption reported by the provider for a
// single call. Counts degrade to zero when the provider omits them.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// Config configures a model provider.
type Config struct {
	Provider string `json:"provider"` // openai, gemini, custom
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
}

// NewProvider creates a chat provider from configuration.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg), nil
	case "gemini":
		return NewGemini(cfg), nil
	case "custom":
		return NewOpenAICompat(cfg), nil
	case "":
		return nil, fmt.Errorf("llm provider not specified")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// NewImageProvider creates a text-to-image provider from configuration.
// Supported providers speak the OpenAI images API.
func NewImageProvider(cfg Config) (ImageProvider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg), nil
	case "custom":
		return NewOpenAICompat(cfg), nil
	case "":
		return nil, fmt.Errorf("image provider not specified")
	default:
		return nil, fmt.Errorf("provider %s does not support image generation", cfg.Provider)
	}
}
