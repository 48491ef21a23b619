package llm

import (
	"fmt"

	"github.com/raihanp/canvassist/internal/config"
)

// NewProvider creates a provider from the LLM configuration. Groq exposes
// an OpenAI-compatible API, so it shares the OpenAI provider with a
// different base URL.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider("openai", cfg.APIKey, cfg.BaseURL), nil
	case "groq":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultGroqBaseURL
		}
		return NewOpenAIProvider("groq", cfg.APIKey, baseURL), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
