package model

import (
	"context"
	"errors"
	"time"

	"decompbench/pkg/core"
)

// Plan is the shared request policy for provider clients: a per-attempt
// timeout, bounded retries with linear backoff, and immediate cut-through on
// context cancellation.
type Plan struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func (p Plan) normalized(defaultTimeout time.Duration) Plan {
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Backoff <= 0 {
		p.Backoff = 500 * time.Millisecond
	}
	return p
}

func (p Plan) do(ctx context.Context, call func(ctx context.Context) (core.Response, error)) (core.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		resp, err := call(attemptCtx)
		cancel()
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return core.Response{}, err
		}
		lastErr = err

		if attempt < p.MaxRetries {
			select {
			case <-ctx.Done():
				return core.Response{}, ctx.Err()
			case <-time.After(p.Backoff * time.Duration(attempt+1)):
			}
		}
	}
	return core.Response{}, lastErr
}

// fillUsage estimates token usage when the provider reported none, so
// downstream cost accounting always has numbers to work with.
func fillUsage(resp core.Response, prompt string) core.Response {
	if resp.TokenUsage.TotalTokens > 0 {
		return resp
	}
	resp.TokenUsage.PromptTokens = core.EstimateTokens(prompt)
	resp.TokenUsage.CompletionTokens = core.EstimateTokens(resp.Content)
	resp.TokenUsage.TotalTokens = resp.TokenUsage.PromptTokens + resp.TokenUsage.CompletionTokens
	return resp
}
