package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const systemPrompt = "You convert conversational resume input into JSON Resume sections. Reply with JSON only."

// LangChainClient implements Client for the providers reached through langchaingo
type LangChainClient struct {
	config *Config
	apiKey string

	mu     sync.Mutex
	models map[string]llms.Model
}

// NewLangChainClient creates a client for OpenAI, Anthropic or Ollama
func NewLangChainClient(config *Config, apiKey string) (*LangChainClient, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	switch config.Provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
	case ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
	case ProviderOllama:
	default:
		return nil, &UnsupportedProviderError{Provider: config.Provider}
	}
	return &LangChainClient{config: config, apiKey: apiKey, models: make(map[string]llms.Model)}, nil
}

// model returns the langchaingo model for a tier, creating it on first use
func (c *LangChainClient) model(tier ModelTier) (llms.Model, error) {
	name := c.config.GetModel(tier)
	if name == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.models[name]; ok {
		return m, nil
	}

	var model llms.Model
	var err error
	switch c.config.Provider {
	case ProviderOpenAI:
		model, err = openai.New(openai.WithToken(c.apiKey), openai.WithModel(name))
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
	case ProviderAnthropic:
		model, err = anthropic.New(anthropic.WithToken(c.apiKey), anthropic.WithModel(name))
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(name)}
		if c.config.ServerURL != "" {
			opts = append(opts, ollama.WithServerURL(c.config.ServerURL))
		}
		model, err = ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
	default:
		return nil, &UnsupportedProviderError{Provider: c.config.Provider}
	}
	c.models[name] = model
	return model, nil
}

// GenerateContent generates text content using the specified model tier
func (c *LangChainClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, llms.WithTemperature(0.1))
}

// GenerateJSON generates JSON content using the specified model tier
func (c *LangChainClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, llms.WithTemperature(0.1), llms.WithJSONMode())
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *LangChainClient) generate(ctx context.Context, prompt string, tier ModelTier, opts ...llms.CallOption) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	response, err := model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}
	return response.Choices[0].Content, nil
}

// GetModel returns the model name for a tier
func (c *LangChainClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; langchaingo models hold no long-lived resources
func (c *LangChainClient) Close() error {
	return nil
}
