package core

import "context"

// Task is a single benign proxy task. ExpectedKeywords drive the keyword
// accuracy metric; an empty list means any safe output counts as accurate.
type Task struct {
	ID               string            `json:"id" yaml:"id"`
	Prompt           string            `json:"prompt" yaml:"prompt"`
	ExpectedKeywords []string          `json:"expected_keywords,omitempty" yaml:"expected_keywords,omitempty"`
	Category         string            `json:"category,omitempty" yaml:"category,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// TaskSource provides tasks for evaluation.
type TaskSource interface {
	Name() string
	Len(ctx context.Context) (int, error)
	Tasks(ctx context.Context) (<-chan Task, <-chan error)
}
