package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"decompbench/pkg/cache"
	"decompbench/pkg/core"
	"decompbench/pkg/model"
	"decompbench/pkg/safety"
)

// modelDeps is the shared wiring every constructed model gets: the safety
// checker is mandatory, cache and limiter are optional.
type modelDeps struct {
	checker *safety.Checker
	cache   *cache.Cache
	limiter core.RateLimiter
}

// buildModel constructs a provider model for one role and wraps it in the
// safety, cache, and rate-limit layers. The safety wrapper is always
// outermost so nothing a provider returns escapes unchecked.
func buildModel(ctx context.Context, role RoleConfig, deps modelDeps) (core.Model, error) {
	provider := role.Provider
	if provider == "" {
		provider = "mock"
	}

	var m core.Model
	switch provider {
	case "mock":
		name := role.Model
		if name == "" {
			name = "mock"
		}
		m = model.Mock{NameValue: name, ResponseText: role.MockResponse}
	case "openai":
		client, err := model.NewOpenAIFromEnv(role.Model)
		if err != nil {
			return nil, err
		}
		client.Plan = tunePlan(client.Plan)
		m = client
	case "anthropic":
		client, err := model.NewAnthropicFromEnv(role.Model)
		if err != nil {
			return nil, err
		}
		client.Plan = tunePlan(client.Plan)
		m = client
	case "gemini":
		client, err := model.NewGeminiFromEnv(ctx, role.Model)
		if err != nil {
			return nil, err
		}
		m = client
	case "ollama":
		m = model.NewOllama(appConfig.Provider.OllamaBaseURL, role.Model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	if deps.cache != nil {
		m = model.Cached{Model: m, Cache: deps.cache}
	}
	if deps.limiter != nil {
		m = model.Limited{Model: m, Limiter: deps.limiter}
	}
	return model.Safe{Model: m, Checker: deps.checker}, nil
}

func tunePlan(plan model.Plan) model.Plan {
	p := appConfig.Provider
	if p.TimeoutSeconds > 0 {
		plan.Timeout = time.Duration(p.TimeoutSeconds) * time.Second
	}
	if p.MaxRetries > 0 {
		plan.MaxRetries = p.MaxRetries
	}
	if p.BackoffMillis > 0 {
		plan.Backoff = time.Duration(p.BackoffMillis) * time.Millisecond
	}
	return plan
}

// buildChecker assembles the safety checker, optionally with the remote
// moderation layer.
func buildChecker(eventPath string, moderation bool) *safety.Checker {
	checker := safety.NewChecker(eventPath)
	if moderation {
		if mod, err := model.NewOpenAIModeratorFromEnv(); err == nil {
			checker.Moderator = mod
		} else if logger != nil {
			logger.Warn("moderation requested but unavailable", zap.Error(err))
		}
	}
	return checker
}
