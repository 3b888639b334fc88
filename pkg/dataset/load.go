package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"decompbench/pkg/core"
)

// TreeSource streams tasks from a generated dataset tree. It implements
// core.TaskSource so a tree can feed the evaluation runner directly.
type TreeSource struct {
	root  string
	tasks []core.Task
}

// Load reads the full tree into memory and returns a source over it.
// Keyword checks come from each item's checks.json.
func Load(root string) (*TreeSource, error) {
	data, err := os.ReadFile(filepath.Join(root, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("dataset: read manifest: %w", err)
	}
	var man Manifest
	if err := json.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("dataset: parse manifest: %w", err)
	}

	tasks := make([]core.Task, 0, len(man.Items))
	for _, id := range man.Items {
		task, err := loadItem(root, id)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return &TreeSource{root: root, tasks: tasks}, nil
}

func loadItem(root, id string) (core.Task, error) {
	itemDir := filepath.Join(root, "items", id)

	prompt, err := os.ReadFile(filepath.Join(itemDir, "inputs", "prompt.txt"))
	if err != nil {
		return core.Task{}, fmt.Errorf("dataset: item %s: %w", id, err)
	}

	var meta ItemMeta
	metaData, err := os.ReadFile(filepath.Join(itemDir, "meta.json"))
	if err != nil {
		return core.Task{}, fmt.Errorf("dataset: item %s: %w", id, err)
	}
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return core.Task{}, fmt.Errorf("dataset: item %s meta: %w", id, err)
	}

	var checks map[string]string
	checksData, err := os.ReadFile(filepath.Join(itemDir, "expected", "checks.json"))
	if err != nil {
		return core.Task{}, fmt.Errorf("dataset: item %s: %w", id, err)
	}
	if err := json.Unmarshal(checksData, &checks); err != nil {
		return core.Task{}, fmt.Errorf("dataset: item %s checks: %w", id, err)
	}

	var keywords []string
	if contains, ok := checks["contains"]; ok && contains != "" {
		keywords = append(keywords, contains)
	}

	fullPrompt := strings.TrimSpace(string(prompt))
	if attachments, err := loadAttachments(filepath.Join(itemDir, "inputs")); err == nil && attachments != "" {
		fullPrompt += "\n\n" + attachments
	}

	return core.Task{
		ID:               id,
		Prompt:           fullPrompt,
		ExpectedKeywords: keywords,
		Category:         string(meta.Category),
	}, nil
}

// loadAttachments inlines every non-prompt input file so the task prompt
// is self-contained for models without file access.
func loadAttachments(inputsDir string) (string, error) {
	entries, err := os.ReadDir(inputsDir)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, e := range entries {
		if e.IsDir() || e.Name() == "prompt.txt" {
			continue
		}
		body, err := os.ReadFile(filepath.Join(inputsDir, e.Name()))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "--- %s ---\n%s\n", e.Name(), strings.TrimRight(string(body), "\n"))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Name implements core.TaskSource.
func (s *TreeSource) Name() string { return "dataset:" + filepath.Base(s.root) }

// Len implements core.TaskSource.
func (s *TreeSource) Len(context.Context) (int, error) { return len(s.tasks), nil }

// Tasks implements core.TaskSource.
func (s *TreeSource) Tasks(ctx context.Context) (<-chan core.Task, <-chan error) {
	tasks := make(chan core.Task, len(s.tasks))
	errs := make(chan error, 1)
	go func() {
		defer close(tasks)
		defer close(errs)
		for _, t := range s.tasks {
			select {
			case tasks <- t:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()
	return tasks, errs
}
