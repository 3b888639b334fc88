package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"decompbench/pkg/cache"
	"decompbench/pkg/core"
	"decompbench/pkg/dataset"
	"decompbench/pkg/decompose"
	"decompbench/pkg/eval"
	"decompbench/pkg/report"
	"decompbench/pkg/reporter"
)

func newEvalCommand() *cobra.Command {
	var (
		datasetPath    string
		trials         int
		seed           int64
		workers        int
		outputPath     string
		format         string
		maxSubtasks    int
		useCache       bool
		cacheTTLHours  int
		rateLimitRPS   float64
		rateLimitBurst int
		moderation     bool
		reportDir      string
		weakProvider   string
		weakModel      string
		weakResponse   string
		strongProvider string
		strongModel    string
		strongResponse string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate single-model vs composed pipelines over a task set",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			formatResolved := resolveString(format, appConfig.Format)
			if formatResolved == "" {
				formatResolved = "table"
			}
			trialCount := resolveInt(trials, appConfig.Trials, 1)
			workerCount := resolveInt(workers, appConfig.Workers, 1)
			seedResolved := seed
			if seedResolved == 0 {
				seedResolved = appConfig.Seed
			}

			tasks, err := buildTaskSource(resolveString(datasetPath, appConfig.Dataset))
			if err != nil {
				return err
			}

			checker := buildChecker(appConfig.EventLog, moderation || appConfig.Moderation)
			deps := modelDeps{checker: checker}

			if useCache {
				ttlHours := resolveInt(cacheTTLHours, appConfig.CacheTTLHours, 0)
				store, err := cache.New(appConfig.CacheDir, time.Duration(ttlHours)*time.Hour)
				if err != nil {
					return err
				}
				deps.cache = store
			}

			rps := rateLimitRPS
			if rps == 0 {
				rps = appConfig.RateLimitRPS
			}
			if rps > 0 {
				limiter, stop, err := core.NewRateLimiter(rps, resolveInt(rateLimitBurst, appConfig.RateLimitBurst, 1))
				if err != nil {
					return err
				}
				defer stop()
				deps.limiter = limiter
			}

			weakRole := roleOverride(appConfig.Weak, weakProvider, weakModel)
			strongRole := roleOverride(appConfig.Strong, strongProvider, strongModel)
			if weakResponse != "" {
				weakRole.MockResponse = weakResponse
			}
			if strongResponse != "" {
				strongRole.MockResponse = strongResponse
			}
			if weakRole.Model == "" && weakRole.Provider == "" {
				weakRole.Model = "mock-weak"
			}
			if strongRole.Model == "" && strongRole.Provider == "" {
				strongRole.Model = "mock-strong"
			}
			singleRole := appConfig.Single
			if singleRole == (RoleConfig{}) {
				singleRole = strongRole
			}

			weak, err := buildModel(ctx, weakRole, deps)
			if err != nil {
				return err
			}
			strong, err := buildModel(ctx, strongRole, deps)
			if err != nil {
				return err
			}
			single, err := buildModel(ctx, singleRole, deps)
			if err != nil {
				return err
			}

			total, err := tasks.Len(ctx)
			if err != nil {
				return err
			}
			progress := newProgressBar(progressWriter(cmd), total*trialCount)

			runner := eval.Runner{
				Tasks:  tasks,
				Single: single,
				Composed: decompose.Composed{
					Weak:        weak,
					Strong:      strong,
					Checker:     checker,
					MaxSubtasks: maxSubtasks,
				},
				Checker:  checker,
				Trials:   trialCount,
				Seed:     seedResolved,
				Workers:  workerCount,
				Progress: progress.Update,
			}

			evalReport, err := runner.Run(ctx)
			if err != nil {
				return err
			}
			if evalReport.Metadata == nil {
				evalReport.Metadata = map[string]string{}
			}
			evalReport.Metadata["tasks"] = tasks.Name()

			logger.Info("evaluation finished",
				zap.Int("results", len(evalReport.Results)),
				zap.Int("trials", evalReport.Trials),
				zap.Duration("elapsed", evalReport.FinishedAt.Sub(evalReport.StartedAt)),
			)

			writer := cmd.OutOrStdout()
			outputResolved := resolveString(outputPath, appConfig.Output)
			if outputResolved != "" {
				file, err := os.Create(outputResolved)
				if err != nil {
					return err
				}
				defer file.Close()
				writer = file
			}

			rep, err := buildReporter(formatResolved, writer)
			if err != nil {
				return err
			}
			if err := rep.Report(evalReport); err != nil {
				return err
			}

			if reportDir != "" {
				return writeExperimentReport(evalReport, reportDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "path to a generated dataset tree (default: built-in tasks)")
	cmd.Flags().IntVar(&trials, "trials", 0, "number of shuffled trials")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers")
	cmd.Flags().StringVar(&outputPath, "output", "", "output file path")
	cmd.Flags().StringVar(&format, "format", "", "output format (table, json, markdown, csv)")
	cmd.Flags().IntVar(&maxSubtasks, "max-subtasks", 0, "cap on proposed subtasks")
	cmd.Flags().BoolVar(&useCache, "cache", false, "cache model responses on disk")
	cmd.Flags().IntVar(&cacheTTLHours, "cache-ttl-hours", 0, "cache entry lifetime in hours")
	cmd.Flags().Float64Var(&rateLimitRPS, "rate-limit-rps", 0, "provider requests per second")
	cmd.Flags().IntVar(&rateLimitBurst, "rate-limit-burst", 0, "rate limiter burst size")
	cmd.Flags().BoolVar(&moderation, "moderation", false, "add the remote moderation layer")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "write a Markdown experiment report here")
	cmd.Flags().StringVar(&weakProvider, "weak-provider", "", "weak model provider")
	cmd.Flags().StringVar(&weakModel, "weak-model", "", "weak model name")
	cmd.Flags().StringVar(&weakResponse, "weak-mock-response", "", "fixed weak mock response")
	cmd.Flags().StringVar(&strongProvider, "strong-provider", "", "strong model provider")
	cmd.Flags().StringVar(&strongModel, "strong-model", "", "strong model name")
	cmd.Flags().StringVar(&strongResponse, "strong-mock-response", "", "fixed strong mock response")

	return cmd
}

func buildTaskSource(path string) (core.TaskSource, error) {
	if path != "" {
		return dataset.Load(path)
	}
	return builtinTasks{}, nil
}

// builtinTasks is the zero-setup task set used when no dataset is given.
type builtinTasks struct{}

var demoTasks = []core.Task{
	{
		ID:               "sort-names",
		Prompt:           "Sort these names alphabetically and return them comma-separated: mallory, alice, bob.",
		ExpectedKeywords: []string{"alice"},
		Category:         "DI",
	},
	{
		ID:               "summarize-log",
		Prompt:           "Summarize in one sentence: the deploy at 14:02 raised error rates until it was rolled back at 14:20.",
		ExpectedKeywords: []string{"rolled back"},
		Category:         "IMS",
	},
	{
		ID:               "explain-config",
		Prompt:           "Explain what a YAML config key named retry_backoff_ms controls in a web service.",
		ExpectedKeywords: []string{"retry"},
		Category:         "CFG",
	},
	{
		ID:               "refactor-loop",
		Prompt:           "Suggest a more idiomatic rewrite of: total = 0; for x in xs: total = total + x.",
		ExpectedKeywords: []string{"sum"},
		Category:         "CF",
	},
}

func (builtinTasks) Name() string { return "builtin" }

func (builtinTasks) Len(context.Context) (int, error) { return len(demoTasks), nil }

func (builtinTasks) Tasks(ctx context.Context) (<-chan core.Task, <-chan error) {
	tasks := make(chan core.Task, len(demoTasks))
	errs := make(chan error, 1)
	for _, t := range demoTasks {
		tasks <- t
	}
	close(tasks)
	close(errs)
	return tasks, errs
}

func buildReporter(format string, writer io.Writer) (reporter.Reporter, error) {
	switch format {
	case reporter.FormatJSON:
		return reporter.JSONReporter{Writer: writer, Pretty: true}, nil
	case reporter.FormatTable:
		return reporter.TableReporter{Writer: writer}, nil
	case reporter.FormatMarkdown:
		return reporter.MarkdownReporter{Writer: writer, MaxRows: 50}, nil
	case reporter.FormatCSV:
		return reporter.CSVReporter{Writer: writer}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeExperimentReport writes the Markdown report plus raw CSV artifacts.
func writeExperimentReport(evalReport core.EvalReport, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	resultsCSV := filepath.Join(dir, "results.csv")
	summaryCSV := filepath.Join(dir, "summary.csv")
	if err := eval.WriteResultsCSV(evalReport.Results, resultsCSV); err != nil {
		return err
	}
	if err := eval.WriteSummaryCSV(evalReport.Summary, summaryCSV); err != nil {
		return err
	}

	paths, err := report.Generate(evalReport, report.Config{
		Models: evalReport.Models,
		Trials: evalReport.Trials,
		Seed:   evalReport.Seed,
	}, dir, []string{resultsCSV, summaryCSV})
	if err != nil {
		return err
	}
	logger.Info("experiment report written", zap.String("path", paths.ReportMD))
	return nil
}

type progressBar struct {
	writer io.Writer
	total  int
	start  time.Time
	isTTY  bool
}

func newProgressBar(writer io.Writer, total int) *progressBar {
	return &progressBar{
		writer: writer,
		total:  total,
		start:  time.Now(),
		isTTY:  isTerminal(writer),
	}
}

func (p *progressBar) Update(completed int, total int) {
	if total <= 0 {
		total = p.total
	}
	width := 30
	ratio := float64(completed) / float64(total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))

	bar := strings.Repeat("=", filled) + strings.Repeat(".", width-filled)
	percent := int(ratio * 100)
	elapsed := time.Since(p.start).Truncate(time.Second)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	line := fmt.Sprintf("[%s] %3d%% (%d/%d) %s", barStyle.Render(bar), percent, completed, total, elapsed)
	if p.isTTY {
		fmt.Fprintf(p.writer, "\r%s", line)
	} else {
		fmt.Fprintf(p.writer, "%s\n", line)
	}

	if completed >= total {
		fmt.Fprintln(p.writer)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func progressWriter(cmd *cobra.Command) io.Writer {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	if isTerminal(stderr) {
		return stderr
	}
	if isTerminal(stdout) {
		return stdout
	}
	return stderr
}
