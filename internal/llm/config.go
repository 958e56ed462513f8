// Package llm provides the language model clients used as generation providers.
// Gemini is reached through generative-ai-go; OpenAI, Anthropic and Ollama through langchaingo.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short extraction
	TierLite ModelTier = "lite"
	// TierStandard is for structured section generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or ambiguous input
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// UnsupportedProviderError is returned for provider names outside the supported set
type UnsupportedProviderError struct {
	Provider Provider
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported LLM provider: %s", e.Provider)
}

// Config holds the model configuration of one provider
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// ServerURL is only used by self-hosted providers (Ollama)
	ServerURL string
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultConfigFor returns the default model set of a provider
func DefaultConfigFor(provider Provider) (*Config, error) {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiConfig(), nil
	case ProviderOpenAI:
		return &Config{Provider: ProviderOpenAI, Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		}}, nil
	case ProviderAnthropic:
		return &Config{Provider: ProviderAnthropic, Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-3-5-haiku-latest",
			TierAdvanced: "claude-3-5-sonnet-latest",
		}}, nil
	case ProviderOllama:
		return &Config{Provider: ProviderOllama, ServerURL: "http://localhost:11434", Models: map[ModelTier]string{
			TierStandard: "llama3.1",
		}}, nil
	}
	return nil, &UnsupportedProviderError{Provider: provider}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:  c.Provider,
		Models:    make(map[ModelTier]string),
		ServerURL: c.ServerURL,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
