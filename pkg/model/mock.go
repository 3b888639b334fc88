package model

import (
	"context"
	"strings"
	"time"

	"decompbench/pkg/core"
)

// Mock is a deterministic offline model. When ResponseText is empty it
// echoes the flattened prompt behind a stable header, clipped to roughly
// four characters per allowed output token so the token estimate lines up.
type Mock struct {
	NameValue    string
	ResponseText string
}

func (m Mock) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m Mock) Generate(_ context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	start := time.Now()

	content := m.ResponseText
	if content == "" {
		body := strings.Join(strings.Fields(prompt), " ")
		if opts.MaxTokens > 0 {
			maxChars := opts.MaxTokens * 4
			if len(body) > maxChars {
				body = body[:maxChars]
			}
		}
		if body == "" {
			body = "(empty prompt)"
		}
		content = "[MOCK:" + m.Name() + "] " + body
	}

	resp := core.Response{
		Content: content,
		Latency: time.Since(start),
	}
	return fillUsage(resp, prompt), nil
}
