package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"decompbench/pkg/core"
)

func sampleReport() core.EvalReport {
	return core.EvalReport{
		Summary: []core.VariantSummary{
			{Variant: core.VariantComposed, Accuracy: 0.5, SuccessRate: 0.5, MeanTokenUsage: 120.5, Count: 2},
			{Variant: core.VariantSingle, Accuracy: 1.0, SuccessRate: 1.0, MeanTokenUsage: 40, Count: 2},
		},
		Results: []core.Result{
			{Variant: core.VariantSingle, TaskID: "t1", Output: "sorted list | done", Accuracy: 1.0, Success: true, Tokens: 40, Duration: 150 * time.Millisecond},
			{Variant: core.VariantComposed, TaskID: "t1", Output: "step one\nstep two", Accuracy: 0.5, Tokens: 120, Blocked: true, Err: "output blocked"},
		},
		Trials: 1,
		Seed:   17,
		Models: map[string]string{"single": "mock-strong"},
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONReporter{Writer: &buf, Pretty: true}.Report(sampleReport()))

	var decoded core.EvalReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Summary, 2)
	require.Equal(t, int64(17), decoded.Seed)
}

func TestCSVReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVReporter{Writer: &buf}.Report(sampleReport()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "variant", rows[0][0])
	require.Equal(t, core.VariantSingle, rows[1][0])
	require.Equal(t, "true", rows[2][6], "blocked column")
}

func TestMarkdownReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownReporter{Writer: &buf}.Report(sampleReport()))

	out := buf.String()
	require.Contains(t, out, "## Summary")
	require.Contains(t, out, "| single_model | 1.000 | 1.000 | 40.0 | 2 |")
	require.Contains(t, out, `sorted list \| done`)
	require.NotContains(t, out, "step one\nstep two", "newlines must be flattened in cells")
}

func TestMarkdownReporterCapsRows(t *testing.T) {
	report := sampleReport()
	for i := 0; i < 20; i++ {
		report.Results = append(report.Results, core.Result{Variant: core.VariantSingle, TaskID: "extra"})
	}

	var buf bytes.Buffer
	require.NoError(t, MarkdownReporter{Writer: &buf, MaxRows: 5}.Report(report))
	require.Contains(t, buf.String(), "_17 more rows omitted._")
	require.Equal(t, 3, strings.Count(buf.String(), "| extra |"))
}

func TestTableReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableReporter{Writer: &buf}.Report(sampleReport()))

	out := buf.String()
	require.Contains(t, out, "single_model")
	require.Contains(t, out, "Blocked: 1")
}
