package reporter

import "decompbench/pkg/core"

// Reporter writes an evaluation report.
type Reporter interface {
	Report(report core.EvalReport) error
}

const (
	FormatJSON     = "json"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)
