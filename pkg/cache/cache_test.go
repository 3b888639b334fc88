package cache

import (
	"testing"
	"time"

	"decompbench/pkg/core"

	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	opts := core.GenerateOptions{MaxTokens: 64, Temperature: 0.2}
	resp := core.Response{Content: "cached answer", TokenUsage: core.TokenUsage{TotalTokens: 3}}

	_, ok := c.Get("mock", "prompt", opts)
	require.False(t, ok)

	require.NoError(t, c.Set("mock", "prompt", opts, resp))

	got, ok := c.Get("mock", "prompt", opts)
	require.True(t, ok)
	require.Equal(t, resp.Content, got.Content)

	// Different options miss.
	_, ok = c.Get("mock", "prompt", core.GenerateOptions{MaxTokens: 32})
	require.False(t, ok)
}

func TestCacheTTLEviction(t *testing.T) {
	c, err := New(t.TempDir(), time.Nanosecond)
	require.NoError(t, err)

	opts := core.GenerateOptions{}
	require.NoError(t, c.Set("mock", "old", opts, core.Response{Content: "stale"}))

	time.Sleep(10 * time.Millisecond)
	_, ok := c.Get("mock", "old", opts)
	require.False(t, ok)
}
