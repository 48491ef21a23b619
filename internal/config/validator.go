package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the configuration for startup-fatal problems. Missing
// credentials are fatal here; everything downstream may assume they exist.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.ValidateCanvas(cfg.Canvas); err != nil {
		return err
	}
	if err := v.ValidateLLM(cfg.LLM); err != nil {
		return err
	}
	if cfg.Gateway.Port <= 0 || cfg.Gateway.Port > 65535 {
		return fmt.Errorf("gateway port %d is out of range", cfg.Gateway.Port)
	}
	if cfg.Sessions.MaxHistory <= 0 {
		return fmt.Errorf("sessions max_history must be positive")
	}
	return nil
}

// ValidateCanvas validates Canvas connection settings
func (v *Validator) ValidateCanvas(cfg CanvasConfig) error {
	if cfg.APIToken == "" {
		return fmt.Errorf("canvas API token is required (set CANVASSIST_CANVAS_API_TOKEN)")
	}
	if cfg.BaseURL == "" {
		return fmt.Errorf("canvas base URL cannot be empty")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid canvas base URL %q", cfg.BaseURL)
	}

	return nil
}

// ValidateLLM validates language model settings
func (v *Validator) ValidateLLM(cfg LLMConfig) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("%s API key is required (set CANVASSIST_LLM_API_KEY)", cfg.Provider)
	}
	if cfg.Model == "" {
		return fmt.Errorf("model name cannot be empty")
	}

	switch cfg.Provider {
	case "openai":
		if !strings.HasPrefix(cfg.APIKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format (should start with sk-)")
		}
	case "anthropic":
		if !strings.HasPrefix(cfg.APIKey, "sk-ant-") {
			return fmt.Errorf("invalid Anthropic API key format (should start with sk-ant-)")
		}
	case "groq":
		// Groq keys start with gsk_, but the endpoint accepts any
		// OpenAI-compatible bearer token, so only non-emptiness is enforced.
	default:
		return fmt.Errorf("unknown LLM provider %q (expected openai, groq, or anthropic)", cfg.Provider)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	if cfg.MaxTokens < 0 {
		return fmt.Errorf("max tokens cannot be negative")
	}

	return nil
}
