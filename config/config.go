// Package config provides configuration management for the application.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Environment variables carrying provider credentials. Presence of the
// key variable is the sole signal used for provider resolution; the
// model and base-URL variables are optional overrides.
const (
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvAnthropicKey   = "ANTHROPIC_API_KEY"
	EnvOllamaBaseURL  = "OLLAMA_BASE_URL"
	EnvHuggingFaceKey = "HUGGINGFACE_API_KEY"
)

// DefaultBodySizeLimit is the max request body size accepted by the server.
const DefaultBodySizeLimit = "1M"

// Config holds the application configuration
type Config struct {
	Server      ServerConfig
	OpenAI      ProviderConfig
	Anthropic   ProviderConfig
	Ollama      ProviderConfig
	HuggingFace ProviderConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      string
	LogFormat string
}

// ProviderConfig holds per-backend configuration. Model and BaseURL are
// optional overrides with per-family defaults applied by the adapters.
type ProviderConfig struct {
	Model   string
	BaseURL string
}

// Credentials is a point-in-time snapshot of which provider credentials
// are present. It is taken fresh on every request so runtime credential
// changes take effect on the next request.
type Credentials struct {
	OpenAIKey      string
	AnthropicKey   string
	OllamaBaseURL  string
	HuggingFaceKey string
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:      viper.GetString("PORT"),
			LogFormat: viper.GetString("LOG_FORMAT"),
		},
		OpenAI: ProviderConfig{
			Model:   viper.GetString("OPENAI_MODEL"),
			BaseURL: viper.GetString("OPENAI_BASE_URL"),
		},
		Anthropic: ProviderConfig{
			Model:   viper.GetString("ANTHROPIC_MODEL"),
			BaseURL: viper.GetString("ANTHROPIC_BASE_URL"),
		},
		Ollama: ProviderConfig{
			Model: viper.GetString("OLLAMA_MODEL"),
		},
		HuggingFace: ProviderConfig{
			Model:   viper.GetString("HUGGINGFACE_MODEL"),
			BaseURL: viper.GetString("HUGGINGFACE_BASE_URL"),
		},
	}

	return cfg, nil
}

// Snapshot captures the current credential state from the environment.
// Deliberately not cached: the registry re-resolves the active provider
// on every request from a snapshot like this one.
func Snapshot() Credentials {
	return Credentials{
		OpenAIKey:      os.Getenv(EnvOpenAIKey),
		AnthropicKey:   os.Getenv(EnvAnthropicKey),
		OllamaBaseURL:  os.Getenv(EnvOllamaBaseURL),
		HuggingFaceKey: os.Getenv(EnvHuggingFaceKey),
	}
}
