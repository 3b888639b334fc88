package reporter

import (
	"fmt"
	"io"

	"decompbench/pkg/core"
)

type MarkdownReporter struct {
	Writer io.Writer
	// MaxRows caps the per-result table; 0 means all rows.
	MaxRows int
}

func (r MarkdownReporter) Report(report core.EvalReport) error {
	if _, err := fmt.Fprintf(r.Writer, "# Decomposition Evaluation Report\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "- Trials: %d\n- Seed: %d\n", report.Trials, report.Seed); err != nil {
		return err
	}
	for role, name := range report.Models {
		if _, err := fmt.Fprintf(r.Writer, "- Model (%s): %s\n", role, name); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(r.Writer, "\n## Summary\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| Variant | Accuracy | Success rate | Mean tokens | Count |\n|---|---|---|---|---|\n"); err != nil {
		return err
	}
	for _, s := range report.Summary {
		if _, err := fmt.Fprintf(r.Writer, "| %s | %.3f | %.3f | %.1f | %d |\n",
			s.Variant, s.Accuracy, s.SuccessRate, s.MeanTokenUsage, s.Count); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(r.Writer, "\n## Results\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| Variant | Task | Output | Accuracy | Success | Tokens | Blocked | Error |\n|---|---|---|---|---|---|---|---|\n"); err != nil {
		return err
	}
	rows := report.Results
	if r.MaxRows > 0 && len(rows) > r.MaxRows {
		rows = rows[:r.MaxRows]
	}
	for _, res := range rows {
		if _, err := fmt.Fprintf(
			r.Writer,
			"| %s | %s | %s | %.3f | %t | %d | %t | %s |\n",
			res.Variant,
			res.TaskID,
			escapePipe(clip(res.Output, 80)),
			res.Accuracy,
			res.Success,
			res.Tokens,
			res.Blocked,
			escapePipe(res.Err),
		); err != nil {
			return err
		}
	}
	if len(rows) < len(report.Results) {
		if _, err := fmt.Fprintf(r.Writer, "\n_%d more rows omitted._\n", len(report.Results)-len(rows)); err != nil {
			return err
		}
	}
	return nil
}

func escapePipe(input string) string {
	if input == "" {
		return ""
	}
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if r == '|' {
			out = append(out, '\\', r)
		} else if r == '\n' || r == '\r' {
			out = append(out, ' ')
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
