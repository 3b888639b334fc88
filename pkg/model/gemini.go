package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"

	"decompbench/pkg/core"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini calls the Gemini API via google.golang.org/genai.
type Gemini struct {
	Client *genai.Client
	Model  string
	Plan   Plan
}

func NewGeminiFromEnv(ctx context.Context, modelName string) (*Gemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("gemini: GEMINI_API_KEY or GOOGLE_API_KEY is required")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{
		Client: client,
		Model:  modelName,
		Plan:   Plan{Timeout: 60 * time.Second, MaxRetries: 2, Backoff: 500 * time.Millisecond},
	}, nil
}

func (g *Gemini) Name() string {
	if g.Model == "" {
		return defaultGeminiModel
	}
	return g.Model
}

func (g *Gemini) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	config := &genai.GenerateContentConfig{}
	if opts.SystemPrompt != "" {
		parts := genai.Text(opts.SystemPrompt)
		if len(parts) > 0 && parts[0] != nil {
			config.SystemInstruction = parts[0]
		}
	}
	if opts.Temperature > 0 {
		temp := float32(opts.Temperature)
		config.Temperature = &temp
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.TopP > 0 {
		topP := float32(opts.TopP)
		config.TopP = &topP
	}

	plan := g.Plan.normalized(60 * time.Second)
	resp, err := plan.do(ctx, func(attemptCtx context.Context) (core.Response, error) {
		start := time.Now()
		result, err := g.Client.Models.GenerateContent(attemptCtx, g.Name(), genai.Text(prompt), config)
		if err != nil {
			return core.Response{}, err
		}
		content := result.Text()
		if content == "" {
			return core.Response{}, fmt.Errorf("gemini: empty response")
		}
		usage := core.TokenUsage{}
		if result.UsageMetadata != nil {
			usage.PromptTokens = int(result.UsageMetadata.PromptTokenCount)
			usage.CompletionTokens = int(result.UsageMetadata.CandidatesTokenCount)
			usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		}
		return core.Response{
			Content:    content,
			TokenUsage: usage,
			Latency:    time.Since(start),
		}, nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return core.Response{}, err
		}
		return core.Response{}, fmt.Errorf("gemini: request failed after retries: %w", err)
	}
	return fillUsage(resp, prompt), nil
}
