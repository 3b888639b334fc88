package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvalReportJSONRoundTrip(t *testing.T) {
	report := EvalReport{
		Summary: []VariantSummary{
			{Variant: VariantComposed, Accuracy: 1, SuccessRate: 1, MeanTokenUsage: 42, Count: 3},
			{Variant: VariantSingle, Accuracy: 0.5, SuccessRate: 0.5, MeanTokenUsage: 12, Count: 3},
		},
		Results: []Result{
			{
				Variant:  VariantSingle,
				TaskID:   "1",
				Prompt:   "summarize notes",
				Output:   "a summary",
				Accuracy: 1,
				Success:  true,
				Tokens:   8,
				Duration: 10 * time.Millisecond,
			},
		},
		Trials: 3,
		Seed:   42,
		Models: map[string]string{"single": "mock"},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded EvalReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Summary, 2)
	require.Equal(t, VariantComposed, decoded.Summary[0].Variant)
	require.Len(t, decoded.Results, 1)
	require.Equal(t, report.Results[0].Prompt, decoded.Results[0].Prompt)
	require.Equal(t, report.Trials, decoded.Trials)
}

func TestEstimateTokens(t *testing.T) {
	require.Equal(t, 0, EstimateTokens(""))
	require.Equal(t, 1, EstimateTokens("hi"))
	require.Equal(t, 10, EstimateTokens("0123456789012345678901234567890123456789"))
	// Word floor wins for short words separated by spaces.
	require.Equal(t, 3, EstimateTokens("a b c"))
}
