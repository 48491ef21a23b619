package config

// DefaultGroqBaseURL is the OpenAI-compatible endpoint Groq exposes.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// Config represents the main assistant configuration
type Config struct {
	// Canvas API connection
	Canvas CanvasConfig `json:"canvas" mapstructure:"canvas"`

	// Language model
	LLM LLMConfig `json:"llm" mapstructure:"llm"`

	// HTTP gateway
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Conversation sessions
	Sessions SessionsConfig `json:"sessions" mapstructure:"sessions"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// CanvasConfig holds Canvas LMS connection settings
type CanvasConfig struct {
	BaseURL  string `json:"base_url" mapstructure:"base_url"`
	APIToken string `json:"api_token" mapstructure:"api_token"`
	// AccountID is the default account for course creation
	AccountID int64 `json:"account_id" mapstructure:"account_id"`
}

// LLMConfig holds language model settings
type LLMConfig struct {
	Provider     string  `json:"provider" mapstructure:"provider"` // openai, groq, anthropic
	Model        string  `json:"model" mapstructure:"model"`
	APIKey       string  `json:"api_key" mapstructure:"api_key"`
	BaseURL      string  `json:"base_url" mapstructure:"base_url"` // OpenAI-compatible endpoint override
	Temperature  float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens    int     `json:"max_tokens" mapstructure:"max_tokens"`
	SystemPrompt string  `json:"system_prompt" mapstructure:"system_prompt"`
}

// GatewayConfig holds HTTP gateway settings
type GatewayConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// SessionsConfig holds conversation session settings
type SessionsConfig struct {
	Dir        string `json:"dir" mapstructure:"dir"`
	MaxHistory int    `json:"max_history" mapstructure:"max_history"`
	// RetentionHours bounds how long an idle session is kept before cleanup
	RetentionHours int `json:"retention_hours" mapstructure:"retention_hours"`
	// CleanupSchedule is a cron expression for the idle-session sweep
	CleanupSchedule string `json:"cleanup_schedule" mapstructure:"cleanup_schedule"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			BaseURL:   "https://canvas.instructure.com",
			AccountID: 1,
		},
		LLM: LLMConfig{
			Provider:    "groq",
			Model:       "llama-3.3-70b-versatile",
			BaseURL:     DefaultGroqBaseURL,
			Temperature: 0.2,
			MaxTokens:   4096,
		},
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Sessions: SessionsConfig{
			MaxHistory:      10,
			RetentionHours:  72,
			CleanupSchedule: "@hourly",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Console:   true,
			Pretty:    true,
			Redaction: true,
		},
	}
}
