package llm

import "context"

// openAIProvider implements Provider and ImageProvider for the OpenAI API.
//
// Supported chat models include gpt-4o and gpt-4o-mini (any model with
// vision input). Image generation expects dall-e-2/dall-e-3 class models.
//
// API key: set via config or the OPENAI_API_KEY env var resolved by the
// host.
type openAIProvider struct {
	base openAICompatClient
}

// NewOpenAI creates a provider for OpenAI.
func NewOpenAI(cfg Config) Provider {
	return newOpenAIProvider(cfg)
}

func newOpenAIProvider(cfg Config) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	return &openAIProvider{base: newOpenAICompatClient(cfg)}
}

func (p *openAIProvider) GenerateText(ctx context.Context, req Request) (*Response, error) {
	return p.base.chat(ctx, req)
}

func (p *openAIProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return p.base.generateImage(ctx, prompt)
}
