package reporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"decompbench/pkg/core"
)

type CSVReporter struct {
	Writer io.Writer
}

func (r CSVReporter) Report(report core.EvalReport) error {
	writer := csv.NewWriter(r.Writer)
	header := []string{"variant", "task_id", "output", "accuracy", "success", "tokens", "blocked", "error", "duration_seconds"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, result := range report.Results {
		record := []string{
			result.Variant,
			result.TaskID,
			result.Output,
			strconv.FormatFloat(result.Accuracy, 'f', 4, 64),
			strconv.FormatBool(result.Success),
			strconv.Itoa(result.Tokens),
			strconv.FormatBool(result.Blocked),
			result.Err,
			strconv.FormatFloat(result.Duration.Seconds(), 'f', 6, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
