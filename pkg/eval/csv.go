package eval

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"decompbench/pkg/core"
)

// WriteResultsCSV writes the per-row evaluation results.
func WriteResultsCSV(results []core.Result, path string) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := []string{"variant", "task_id", "prompt", "output", "accuracy", "success", "tokens", "blocked", "error"}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, r := range results {
			row := []string{
				r.Variant,
				r.TaskID,
				r.Prompt,
				r.Output,
				strconv.FormatFloat(r.Accuracy, 'f', 4, 64),
				strconv.FormatBool(r.Success),
				strconv.Itoa(r.Tokens),
				strconv.FormatBool(r.Blocked),
				r.Err,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSummaryCSV writes the per-variant summary.
func WriteSummaryCSV(summary []core.VariantSummary, path string) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := []string{"variant", "accuracy", "success_rate", "mean_token_usage", "count"}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, s := range summary {
			row := []string{
				s.Variant,
				strconv.FormatFloat(s.Accuracy, 'f', 4, 64),
				strconv.FormatFloat(s.SuccessRate, 'f', 4, 64),
				strconv.FormatFloat(s.MeanTokenUsage, 'f', 2, 64),
				strconv.Itoa(s.Count),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, fill func(w *csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := fill(writer); err != nil {
		return fmt.Errorf("eval: write %s: %w", path, err)
	}
	writer.Flush()
	return writer.Error()
}
