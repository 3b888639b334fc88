package eval

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"decompbench/pkg/core"
	"decompbench/pkg/decompose"
	"decompbench/pkg/safety"
)

// Runner evaluates every task under both variants, across shuffled trials.
type Runner struct {
	Tasks    core.TaskSource
	Single   core.Model
	Composed decompose.Composed
	Checker  *safety.Checker
	Trials   int
	Seed     int64
	Workers  int
	Progress func(completed, total int)
}

// Run executes the evaluation. Task order is shuffled per trial with a
// seeded generator so runs are reproducible; results come back in a stable
// (trial, task, variant) order regardless of worker count.
func (r Runner) Run(ctx context.Context) (core.EvalReport, error) {
	if r.Tasks == nil || r.Single == nil {
		return core.EvalReport{}, errors.New("eval: tasks and single model are required")
	}
	if r.Composed.Weak == nil || r.Composed.Strong == nil {
		return core.EvalReport{}, errors.New("eval: composed weak and strong models are required")
	}

	trials := r.Trials
	if trials <= 0 {
		trials = 1
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	tasks, err := collectTasks(ctx, r.Tasks)
	if err != nil {
		return core.EvalReport{}, err
	}

	started := time.Now()
	rng := rand.New(rand.NewSource(r.Seed))

	type job struct {
		index int
		task  core.Task
	}
	var jobs []job
	order := make([]core.Task, len(tasks))
	copy(order, tasks)
	for trial := 0; trial < trials; trial++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, task := range order {
			jobs = append(jobs, job{index: len(jobs), task: task})
		}
	}

	results := make([]core.Result, 2*len(jobs))
	var (
		mu        sync.Mutex
		completed int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, j := range jobs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			single := EvaluateSingle(groupCtx, j.task, r.Single, r.Checker)
			composed := EvaluateComposed(groupCtx, j.task, r.Composed)
			results[2*j.index] = single
			results[2*j.index+1] = composed

			if r.Progress != nil {
				mu.Lock()
				completed++
				r.Progress(completed, len(jobs))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return core.EvalReport{}, err
	}

	return core.EvalReport{
		Summary:    Summarize(results),
		Results:    results,
		Trials:     trials,
		Seed:       r.Seed,
		Models:     r.modelNames(),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}, nil
}

func (r Runner) modelNames() map[string]string {
	names := map[string]string{}
	if r.Single != nil {
		names["single"] = r.Single.Name()
	}
	if r.Composed.Weak != nil {
		names["weak"] = r.Composed.Weak.Name()
	}
	if r.Composed.Strong != nil {
		names["strong"] = r.Composed.Strong.Name()
	}
	return names
}

func collectTasks(ctx context.Context, source core.TaskSource) ([]core.Task, error) {
	taskCh, errCh := source.Tasks(ctx)

	var tasks []core.Task
	for task := range taskCh {
		tasks = append(tasks, task)
	}
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	if len(tasks) == 0 {
		return nil, errors.New("eval: task source is empty")
	}
	return tasks, nil
}

// Summarize aggregates results per variant, sorted by variant name.
func Summarize(results []core.Result) []core.VariantSummary {
	type bucket struct {
		accuracy float64
		tokens   float64
		passed   int
		count    int
	}
	buckets := map[string]*bucket{}
	for _, result := range results {
		b := buckets[result.Variant]
		if b == nil {
			b = &bucket{}
			buckets[result.Variant] = b
		}
		b.accuracy += result.Accuracy
		b.tokens += float64(result.Tokens)
		if result.Success {
			b.passed++
		}
		b.count++
	}

	variants := make([]string, 0, len(buckets))
	for variant := range buckets {
		variants = append(variants, variant)
	}
	sort.Strings(variants)

	summary := make([]core.VariantSummary, 0, len(variants))
	for _, variant := range variants {
		b := buckets[variant]
		summary = append(summary, core.VariantSummary{
			Variant:        variant,
			Accuracy:       b.accuracy / float64(b.count),
			SuccessRate:    float64(b.passed) / float64(b.count),
			MeanTokenUsage: b.tokens / float64(b.count),
			Count:          b.count,
		})
	}
	return summary
}
