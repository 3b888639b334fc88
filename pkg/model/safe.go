package model

import (
	"context"
	"fmt"

	"decompbench/pkg/core"
	"decompbench/pkg/safety"
)

// Safe enforces the content policy on everything the wrapped model
// produces. Unsafe outputs surface as *safety.BlockedError so callers can
// redact instead of failing the whole run.
type Safe struct {
	Model   core.Model
	Checker *safety.Checker
}

func (s Safe) Name() string {
	if s.Model == nil {
		return ""
	}
	return s.Model.Name()
}

func (s Safe) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	if s.Model == nil {
		return core.Response{}, fmt.Errorf("safe: model is required")
	}
	checker := s.Checker
	if checker == nil {
		checker = &safety.Checker{Policy: safety.DefaultPolicy()}
	}

	resp, err := s.Model.Generate(ctx, prompt, opts)
	if err != nil {
		return core.Response{}, err
	}
	if err := checker.Ensure(ctx, resp.Content, "generate:"+s.Name()); err != nil {
		return core.Response{}, err
	}
	return resp, nil
}
