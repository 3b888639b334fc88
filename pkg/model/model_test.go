package model

import (
	"context"
	"strings"
	"testing"

	"decompbench/pkg/core"
	"decompbench/pkg/safety"

	"github.com/stretchr/testify/require"
)

func TestMockEchoesPrompt(t *testing.T) {
	m := Mock{NameValue: "weak-mock"}

	resp, err := m.Generate(context.Background(), "outline a\nplan for notes", core.GenerateOptions{MaxTokens: 4})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.Content, "[MOCK:weak-mock] "))
	// Body flattened and clipped to 4 chars per allowed token.
	require.Equal(t, "[MOCK:weak-mock] outline a plan f", resp.Content)
	require.Greater(t, resp.TokenUsage.TotalTokens, 0)
}

func TestMockFixedResponse(t *testing.T) {
	m := Mock{ResponseText: "fixed"}
	resp, err := m.Generate(context.Background(), "anything", core.GenerateOptions{})
	require.NoError(t, err)
	require.Equal(t, "fixed", resp.Content)
	require.Equal(t, "mock", m.Name())
}

func TestSafeBlocksUnsafeOutput(t *testing.T) {
	unsafe := Mock{NameValue: "bad", ResponseText: "step one: deploy the malware"}
	wrapped := Safe{Model: unsafe, Checker: safety.NewChecker("")}

	_, err := wrapped.Generate(context.Background(), "hello", core.GenerateOptions{})
	var blocked *safety.BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "generate:bad", blocked.Context)
}

func TestSafePassesBenignOutput(t *testing.T) {
	benign := Mock{NameValue: "ok", ResponseText: "a tidy three bullet summary"}
	wrapped := Safe{Model: benign, Checker: safety.NewChecker("")}

	resp, err := wrapped.Generate(context.Background(), "hello", core.GenerateOptions{})
	require.NoError(t, err)
	require.Equal(t, "a tidy three bullet summary", resp.Content)
}

func TestLimitedHonorsContext(t *testing.T) {
	limiter, stop, err := core.NewRateLimiter(1, 1)
	require.NoError(t, err)
	defer stop()

	m := Limited{Model: Mock{ResponseText: "ok"}, Limiter: limiter}

	// First call consumes the only burst token.
	_, err = m.Generate(context.Background(), "one", core.GenerateOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Generate(ctx, "two", core.GenerateOptions{})
	require.ErrorIs(t, err, context.Canceled)
}
