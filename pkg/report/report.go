package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"decompbench/pkg/core"
)

// Config carries experiment metadata rendered into the report.
type Config struct {
	Introduction string            `json:"introduction,omitempty"`
	Models       map[string]string `json:"models,omitempty"`
	Trials       int               `json:"trials"`
	Seed         int64             `json:"seed"`
}

// Paths locates everything Generate wrote.
type Paths struct {
	ReportMD     string
	ArtifactsDir string
	Attached     []string
}

const sampleRowLimit = 10

// Generate writes report.md plus an artifacts directory with metadata,
// config, and best-effort copies of raw logs.
func Generate(evalReport core.EvalReport, cfg Config, outDir string, attach []string) (Paths, error) {
	artifacts := filepath.Join(outDir, "artifacts")
	if err := os.MkdirAll(artifacts, 0o755); err != nil {
		return Paths{}, err
	}

	var attached []string
	for _, candidate := range attach {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		dst := filepath.Join(artifacts, filepath.Base(candidate))
		if err := copyFile(candidate, dst); err == nil {
			attached = append(attached, dst)
		}
	}

	generatedAt := time.Now().UTC().Format(time.RFC3339)
	meta := map[string]any{
		"generated_at": generatedAt,
		"config":       cfg,
		"attached":     attached,
	}
	if err := writeJSON(filepath.Join(artifacts, "metadata.json"), meta); err != nil {
		return Paths{}, err
	}
	if err := writeJSON(filepath.Join(artifacts, "config.json"), cfg); err != nil {
		return Paths{}, err
	}

	var b strings.Builder
	b.WriteString("# Experiment Report\n\n")
	fmt.Fprintf(&b, "_Generated: %s_\n\n", generatedAt)

	b.WriteString("## Introduction\n\n")
	intro := cfg.Introduction
	if intro == "" {
		intro = "This report summarizes evaluation results for model pipelines."
	}
	b.WriteString(intro + "\n\n")

	b.WriteString("## Methods\n\n")
	b.WriteString("We evaluate two variants: a single-model baseline and a composed pipeline " +
		"using automated decomposition. Accuracy is approximated by keyword matches; " +
		"success is 1.0 accuracy; token usage is a proxy estimate.\n\n")
	fmt.Fprintf(&b, "Trials: %d, seed: %d.\n\n", cfg.Trials, cfg.Seed)

	b.WriteString("## Models\n\n")
	if len(cfg.Models) > 0 {
		labels := []struct{ role, label string }{
			{"single", "Single model"},
			{"weak", "Weak model"},
			{"strong", "Strong model"},
		}
		for _, l := range labels {
			name := cfg.Models[l.role]
			if name == "" {
				name = "(unspecified)"
			}
			fmt.Fprintf(&b, "- %s: %s\n", l.label, name)
		}
	} else {
		b.WriteString("Models are described in the experiment configuration.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Safety\n\n")
	b.WriteString("All prompts and outputs pass a conservative safety filter. " +
		"Unsafe content is blocked or redacted. No instructions for harmful " +
		"activities or explicit imagery are produced.\n\n")

	b.WriteString("## Results\n\n")
	b.WriteString("### Summary Table\n\n")
	b.WriteString(summaryTable(evalReport.Summary))
	b.WriteString("\n")

	b.WriteString("### Sample Rows\n\n")
	b.WriteString(sampleTable(evalReport.Results))
	b.WriteString("\n")

	b.WriteString("## Discussion\n\n")
	b.WriteString("Briefly interpret the results, noting where composition helps or harms " +
		"performance and cost.\n\n")

	b.WriteString("## Limitations\n\n")
	b.WriteString("Keyword-based accuracy is a coarse proxy; token estimates are approximate; " +
		"mock models are deterministic.\n\n")

	b.WriteString("## Ethics\n\n")
	b.WriteString("All experiments prioritize safety. We avoid generating harmful, illicit, " +
		"or explicit content and apply defense-in-depth filtering.\n")

	reportPath := filepath.Join(outDir, "report.md")
	if err := os.WriteFile(reportPath, []byte(b.String()), 0o644); err != nil {
		return Paths{}, err
	}

	return Paths{
		ReportMD:     reportPath,
		ArtifactsDir: artifacts,
		Attached:     attached,
	}, nil
}

func summaryTable(summary []core.VariantSummary) string {
	if len(summary) == 0 {
		return "(no summary)\n"
	}
	var b strings.Builder
	b.WriteString("| variant | accuracy | success_rate | mean_token_usage | count |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, s := range summary {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.2f | %d |\n",
			s.Variant, s.Accuracy, s.SuccessRate, s.MeanTokenUsage, s.Count)
	}
	return b.String()
}

func sampleTable(results []core.Result) string {
	if len(results) == 0 {
		return "(no samples)\n"
	}
	shown := results
	truncated := false
	if len(shown) > sampleRowLimit {
		shown = shown[:sampleRowLimit]
		truncated = true
	}

	var b strings.Builder
	b.WriteString("| variant | task_id | prompt | output | accuracy | success | tokens |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, r := range shown {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.4f | %t | %d |\n",
			r.Variant, r.TaskID, cell(r.Prompt), cell(r.Output), r.Accuracy, r.Success, r.Tokens)
	}
	if truncated {
		fmt.Fprintf(&b, "\n> Note: showing first %d of %d rows.\n", sampleRowLimit, len(results))
	}
	return b.String()
}

// cell makes text safe inside a Markdown table cell.
func cell(input string) string {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		switch r {
		case '|':
			out = append(out, '\\', r)
		case '\n', '\r':
			out = append(out, ' ')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
