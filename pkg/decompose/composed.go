package decompose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"decompbench/pkg/core"
	"decompbench/pkg/safety"
)

// Outcome is the result of one composed (weak planner + strong executor)
// run over a task prompt.
type Outcome struct {
	Subtasks        []string `json:"subtasks"`
	Solutions       []string `json:"solutions"`
	BlockedSubtasks []string `json:"blocked_subtasks,omitempty"`
	SubtaskTokens   []int    `json:"subtask_tokens,omitempty"`
	SolutionTokens  []int    `json:"solution_tokens,omitempty"`
	FinalAnswer     string   `json:"final_answer"`
	Blocked         bool     `json:"blocked,omitempty"`
	Redacted        bool     `json:"redacted,omitempty"`
	Success         bool     `json:"success"`
}

// Composed decomposes with a weak model and solves each subtask with a
// strong model, filtering at every stage.
type Composed struct {
	Weak        core.Model
	Strong      core.Model
	Checker     *safety.Checker
	MaxSubtasks int
}

// Run executes the composed pipeline for one prompt. Policy blocks are
// absorbed into the outcome; only transport or model failures return an
// error.
func (c Composed) Run(ctx context.Context, prompt string) (Outcome, error) {
	if c.Weak == nil || c.Strong == nil {
		return Outcome{}, fmt.Errorf("decompose: weak and strong models are required")
	}
	checker := c.Checker
	if checker == nil {
		checker = &safety.Checker{Policy: safety.DefaultPolicy()}
	}

	if !checker.OK(ctx, prompt) {
		return Outcome{Blocked: true}, nil
	}

	proposed, err := ProposeSubtasks(ctx, c.Weak, checker, prompt, c.MaxSubtasks)
	if err != nil {
		var blocked *safety.BlockedError
		if !errors.As(err, &blocked) {
			return Outcome{}, err
		}
		proposed = nil
	}

	out := Outcome{}
	for _, subtask := range proposed {
		if !checker.OK(ctx, subtask) {
			out.BlockedSubtasks = append(out.BlockedSubtasks, subtask)
			continue
		}
		out.Subtasks = append(out.Subtasks, subtask)
		out.SubtaskTokens = append(out.SubtaskTokens, core.EstimateTokens(subtask))
	}

	for _, subtask := range out.Subtasks {
		resp, err := SolveSubtask(ctx, c.Strong, checker, subtask)
		solution := resp.Content
		if err != nil {
			var blocked *safety.BlockedError
			if !errors.As(err, &blocked) {
				return Outcome{}, err
			}
			out.Redacted = true
			solution = safety.Redacted
		}
		out.Solutions = append(out.Solutions, solution)
		out.SolutionTokens = append(out.SolutionTokens, core.EstimateTokens(solution))
	}

	final, ok := Aggregate(ctx, checker, out.Solutions)
	out.FinalAnswer = final
	out.Success = ok && len(out.Subtasks) == len(out.Solutions) && len(out.Solutions) > 0
	return out, nil
}

// Aggregate joins subtask solutions into a final answer, enforcing safety
// on the combined text. Unsafe combinations are redacted wholesale.
func Aggregate(ctx context.Context, checker *safety.Checker, solutions []string) (string, bool) {
	if checker == nil {
		checker = &safety.Checker{Policy: safety.DefaultPolicy()}
	}
	text := strings.Join(solutions, "\n\n")
	if !checker.OK(ctx, text) {
		return safety.Redacted, false
	}
	return text, true
}

// Manual filters a user-supplied subtask list down to safe, non-empty
// items.
func Manual(ctx context.Context, checker *safety.Checker, subtasks []string) []string {
	if checker == nil {
		checker = &safety.Checker{Policy: safety.DefaultPolicy()}
	}
	var kept []string
	for _, subtask := range subtasks {
		subtask = strings.TrimSpace(subtask)
		if subtask == "" || !checker.OK(ctx, subtask) {
			continue
		}
		kept = append(kept, subtask)
	}
	return kept
}
