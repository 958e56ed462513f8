package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Client so that every call first takes a token from a shared limiter.
// Waiting honours context cancellation, so a per-attempt timeout also bounds the wait.
type RateLimited struct {
	Client
	limiter *rate.Limiter
}

// NewRateLimited limits calls to rps per second with the given burst. A non-positive rps disables limiting.
func NewRateLimited(client Client, rps float64, burst int) *RateLimited {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{Client: client, limiter: rate.NewLimiter(limit, burst)}
}

// GenerateContent waits for the limiter, then delegates
func (r *RateLimited) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.Client.GenerateContent(ctx, prompt, tier)
}

// GenerateJSON waits for the limiter, then delegates
func (r *RateLimited) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.Client.GenerateJSON(ctx, prompt, tier)
}
