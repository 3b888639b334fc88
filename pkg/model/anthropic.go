package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"decompbench/pkg/core"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	Client    anthropic.Client
	Model     string
	MaxTokens int
	Plan      Plan
}

func NewAnthropicFromEnv(modelName string) (*Anthropic, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("anthropic: ANTHROPIC_API_KEY is required")
	}
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &Anthropic{
		Client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		Model:     modelName,
		MaxTokens: 1024,
		Plan:      Plan{Timeout: 30 * time.Second, MaxRetries: 2, Backoff: 500 * time.Millisecond},
	}, nil
}

func (a Anthropic) Name() string {
	if a.Model == "" {
		return defaultAnthropicModel
	}
	return a.Model
}

func (a Anthropic) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	maxTokens := a.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Name()),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.SystemPrompt}}
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(opts.Temperature))
	}
	if opts.TopP > 0 {
		params.TopP = anthropic.Float(float64(opts.TopP))
	}
	if len(opts.Stop) > 0 {
		params.StopSequences = opts.Stop
	}

	plan := a.Plan.normalized(30 * time.Second)
	resp, err := plan.do(ctx, func(attemptCtx context.Context) (core.Response, error) {
		start := time.Now()
		message, err := a.Client.Messages.New(attemptCtx, params)
		if err != nil {
			return core.Response{}, err
		}
		usage := core.TokenUsage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
		}
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		return core.Response{
			Content:    anthropicText(message.Content),
			TokenUsage: usage,
			Latency:    time.Since(start),
		}, nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return core.Response{}, err
		}
		return core.Response{}, fmt.Errorf("anthropic: request failed after retries: %w", err)
	}
	return fillUsage(resp, prompt), nil
}

func anthropicText(blocks []anthropic.ContentBlockUnion) string {
	var builder strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}
