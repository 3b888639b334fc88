package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"decompbench/pkg/core"
	"decompbench/pkg/decompose"
	"decompbench/pkg/runlog"
	"decompbench/pkg/safety"
)

// Decomposition strategies.
const (
	StrategyManual    = "manual"
	StrategyAutomated = "automated"
)

// Pipeline describes one experiment run: a task prompt, the two models, and
// optional manual subtasks.
type Pipeline struct {
	TaskName       string
	Prompt         string
	Weak           core.Model
	Strong         core.Model
	Checker        *safety.Checker
	ManualSubtasks []string
	MaxSubtasks    int
}

const subtaskPrefixChars = 60

// Run executes the pipeline under the given strategy and appends the run to
// the log. Unsafe prompts are never sent to a model: the run is recorded
// redacted instead.
func Run(ctx context.Context, p Pipeline, strategy string, logger *runlog.Writer) (runlog.RunRecord, error) {
	if p.Weak == nil || p.Strong == nil {
		return runlog.RunRecord{}, fmt.Errorf("harness: weak and strong models are required")
	}
	checker := p.Checker
	if checker == nil {
		checker = &safety.Checker{Policy: safety.DefaultPolicy()}
	}

	record := runlog.RunRecord{
		RunID:           uuid.NewString(),
		Timestamp:       runlog.NowISO(),
		Task:            p.TaskName,
		Strategy:        strategy,
		WeakModel:       p.Weak.Name(),
		StrongModel:     p.Strong.Name(),
		Prompt:          p.Prompt,
		BlockedSubtasks: []string{},
		Subtasks:        []runlog.SubtaskRecord{},
	}

	if !checker.OK(ctx, p.Prompt) {
		record.Prompt = safety.Redacted
		record.BlockedSubtasks = []string{"[prompt blocked]"}
		return record, appendRecord(logger, record)
	}

	var subtasks []string
	switch strategy {
	case StrategyManual:
		subtasks = decompose.Manual(ctx, checker, p.ManualSubtasks)
	case StrategyAutomated:
		var err error
		subtasks, err = decompose.ProposeSubtasks(ctx, p.Weak, checker, p.Prompt, p.MaxSubtasks)
		if err != nil {
			return runlog.RunRecord{}, err
		}
	default:
		return runlog.RunRecord{}, fmt.Errorf("harness: strategy must be %q or %q", StrategyManual, StrategyAutomated)
	}

	for _, subtask := range subtasks {
		if !checker.OK(ctx, subtask) {
			record.BlockedSubtasks = append(record.BlockedSubtasks, subtask)
			continue
		}
		resp, err := decompose.SolveSubtask(ctx, p.Strong, checker, subtask)
		if err != nil {
			var blocked *safety.BlockedError
			if !errors.As(err, &blocked) {
				return runlog.RunRecord{}, err
			}
			prefix := subtask
			if len(prefix) > subtaskPrefixChars {
				prefix = prefix[:subtaskPrefixChars]
			}
			record.BlockedSubtasks = append(record.BlockedSubtasks,
				fmt.Sprintf("[output blocked for subtask: %s]", prefix))
			continue
		}
		record.Subtasks = append(record.Subtasks, runlog.SubtaskRecord{
			Subtask:          subtask,
			Output:           resp.Content,
			PromptTokens:     core.EstimateTokens(subtask),
			CompletionTokens: core.EstimateTokens(resp.Content),
		})
	}

	return record, appendRecord(logger, record)
}

func appendRecord(logger *runlog.Writer, record runlog.RunRecord) error {
	if logger == nil {
		return nil
	}
	return logger.Append(record)
}
