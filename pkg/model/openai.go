package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"decompbench/pkg/core"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI calls the OpenAI Responses API.
type OpenAI struct {
	Client openai.Client
	Model  string
	Plan   Plan
}

func NewOpenAIFromEnv(modelName string) (*OpenAI, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("openai: OPENAI_API_KEY is required")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	return &OpenAI{
		Client: openai.NewClient(option.WithAPIKey(apiKey)),
		Model:  modelName,
		Plan:   Plan{Timeout: 30 * time.Second, MaxRetries: 2, Backoff: 500 * time.Millisecond},
	}, nil
}

func (o OpenAI) Name() string {
	if o.Model == "" {
		return defaultOpenAIModel
	}
	return o.Model
}

func (o OpenAI) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	params := responses.ResponseNewParams{
		Model: openai.ChatModel(o.Name()),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
		Store: openai.Bool(false),
	}
	if opts.SystemPrompt != "" {
		params.Instructions = openai.String(opts.SystemPrompt)
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(float64(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(float64(opts.TopP))
	}

	plan := o.Plan.normalized(30 * time.Second)
	resp, err := plan.do(ctx, func(attemptCtx context.Context) (core.Response, error) {
		start := time.Now()
		result, err := o.Client.Responses.New(attemptCtx, params)
		if err != nil {
			return core.Response{}, err
		}
		content := result.OutputText()
		if content == "" {
			return core.Response{}, fmt.Errorf("openai: empty response")
		}
		return core.Response{
			Content: content,
			TokenUsage: core.TokenUsage{
				PromptTokens:     int(result.Usage.InputTokens),
				CompletionTokens: int(result.Usage.OutputTokens),
				TotalTokens:      int(result.Usage.TotalTokens),
			},
			Latency: time.Since(start),
		}, nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return core.Response{}, err
		}
		return core.Response{}, fmt.Errorf("openai: request failed after retries: %w", err)
	}
	return fillUsage(resp, prompt), nil
}
