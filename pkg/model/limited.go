package model

import (
	"context"

	"decompbench/pkg/core"
)

// Limited gates generation through a rate limiter.
type Limited struct {
	Model   core.Model
	Limiter core.RateLimiter
}

func (l Limited) Name() string {
	if l.Model == nil {
		return ""
	}
	return l.Model.Name()
}

func (l Limited) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	if l.Limiter != nil {
		if err := l.Limiter.Wait(ctx); err != nil {
			return core.Response{}, err
		}
	}
	return l.Model.Generate(ctx, prompt, opts)
}
