package llm

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	calls atomic.Int32
}

func (c *countingClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	c.calls.Add(1)
	return "text", nil
}

func (c *countingClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	c.calls.Add(1)
	return `{"ok": true}`, nil
}

func (c *countingClient) GetModel(tier ModelTier) string { return "fake" }
func (c *countingClient) Close() error                   { return nil }

func TestRateLimited_Delegates(t *testing.T) {
	inner := &countingClient{}
	client := NewRateLimited(inner, 0, 1)

	out, err := client.GenerateJSON(context.Background(), "p", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)

	_, err = client.GenerateContent(context.Background(), "p", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, "fake", client.GetModel(TierLite))
}

func TestRateLimited_HonoursCancellation(t *testing.T) {
	inner := &countingClient{}
	client := NewRateLimited(inner, 0.001, 1)

	_, err := client.GenerateJSON(context.Background(), "first", TierStandard)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.GenerateJSON(ctx, "second", TierStandard)
	require.Error(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "bard"}, "key")
	var unsupported *UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, Provider("bard"), unsupported.Provider)
}

func TestNewLangChainClient_RequiresKey(t *testing.T) {
	cfg, err := DefaultConfigFor(ProviderOpenAI)
	require.NoError(t, err)

	_, err = NewLangChainClient(cfg, "")
	assert.Error(t, err)

	client, err := NewLangChainClient(cfg, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.GetModel(TierStandard))
	assert.NoError(t, client.Close())
}

func TestNewLangChainClient_OllamaNeedsNoKey(t *testing.T) {
	cfg, err := DefaultConfigFor(ProviderOllama)
	require.NoError(t, err)

	client, err := NewLangChainClient(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "llama3.1", client.GetModel(TierAdvanced))
}
