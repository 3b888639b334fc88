package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"decompbench/pkg/harness"
	"decompbench/pkg/runlog"
)

func newRunCommand() *cobra.Command {
	var (
		prompt         string
		taskName       string
		strategy       string
		manualSubtasks []string
		maxSubtasks    int
		runLogPath     string
		weakProvider   string
		weakModel      string
		strongProvider string
		strongModel    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one prompt through the decomposition pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if prompt == "" {
				return fmt.Errorf("--prompt is required")
			}
			ctx := cmd.Context()

			checker := buildChecker(appConfig.EventLog, appConfig.Moderation)
			deps := modelDeps{checker: checker}

			weak, err := buildModel(ctx, roleOverride(appConfig.Weak, weakProvider, weakModel), deps)
			if err != nil {
				return err
			}
			strong, err := buildModel(ctx, roleOverride(appConfig.Strong, strongProvider, strongModel), deps)
			if err != nil {
				return err
			}

			logPath := resolveString(runLogPath, appConfig.RunLog)
			if logPath == "" {
				logPath = "runs.jsonl"
			}
			writer, err := runlog.NewWriter(logPath)
			if err != nil {
				return err
			}

			pipeline := harness.Pipeline{
				TaskName:       taskName,
				Prompt:         prompt,
				Weak:           weak,
				Strong:         strong,
				Checker:        checker,
				ManualSubtasks: manualSubtasks,
				MaxSubtasks:    maxSubtasks,
			}

			record, err := harness.Run(ctx, pipeline, strategy, writer)
			if err != nil {
				return err
			}
			logger.Info("run recorded",
				zap.String("run_id", record.RunID),
				zap.String("strategy", record.Strategy),
				zap.Int("subtasks", len(record.Subtasks)),
				zap.Int("blocked", len(record.BlockedSubtasks)),
				zap.String("log", logPath),
			)

			summary, err := json.Marshal(record)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "task prompt to run")
	cmd.Flags().StringVar(&taskName, "task", "", "task name recorded in the log")
	cmd.Flags().StringVar(&strategy, "strategy", harness.StrategyAutomated, "decomposition strategy (manual, automated)")
	cmd.Flags().StringSliceVar(&manualSubtasks, "subtask", nil, "manual subtask (repeatable)")
	cmd.Flags().IntVar(&maxSubtasks, "max-subtasks", 0, "cap on proposed subtasks")
	cmd.Flags().StringVar(&runLogPath, "run-log", "", "path to the JSONL run log")
	cmd.Flags().StringVar(&weakProvider, "weak-provider", "", "weak model provider (mock, openai, anthropic, gemini, ollama)")
	cmd.Flags().StringVar(&weakModel, "weak-model", "", "weak model name")
	cmd.Flags().StringVar(&strongProvider, "strong-provider", "", "strong model provider")
	cmd.Flags().StringVar(&strongModel, "strong-model", "", "strong model name")

	return cmd
}

func roleOverride(role RoleConfig, provider, modelName string) RoleConfig {
	if provider != "" {
		role.Provider = provider
	}
	if modelName != "" {
		role.Model = modelName
	}
	return role
}

func resolveString(value string, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func resolveInt(value int, fallback int, defaultValue int) int {
	if value > 0 {
		return value
	}
	if fallback > 0 {
		return fallback
	}
	return defaultValue
}
