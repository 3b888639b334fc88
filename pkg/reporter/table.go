package reporter

import (
	"fmt"
	"io"

	"decompbench/pkg/core"

	"github.com/olekukonko/tablewriter"
)

type TableReporter struct {
	Writer io.Writer
}

func (r TableReporter) Report(report core.EvalReport) error {
	table := tablewriter.NewWriter(r.Writer)
	table.Header([]string{"Variant", "Accuracy", "Success rate", "Mean tokens", "Count"})
	for _, s := range report.Summary {
		table.Append([]string{
			s.Variant,
			fmt.Sprintf("%.3f", s.Accuracy),
			fmt.Sprintf("%.3f", s.SuccessRate),
			fmt.Sprintf("%.1f", s.MeanTokenUsage),
			fmt.Sprintf("%d", s.Count),
		})
	}
	table.Render()

	blocked := 0
	for _, res := range report.Results {
		if res.Blocked {
			blocked++
		}
	}
	_, err := fmt.Fprintf(r.Writer, "\nTrials: %d  Seed: %d  Results: %d  Blocked: %d\n",
		report.Trials, report.Seed, len(report.Results), blocked)
	return err
}
