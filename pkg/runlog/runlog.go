package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SubtaskRecord logs one executed subtask within a run.
type SubtaskRecord struct {
	Subtask          string `json:"subtask"`
	Output           string `json:"output"`
	Redacted         bool   `json:"redacted"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// RunRecord is one JSONL line in the experiment run log.
type RunRecord struct {
	RunID           string          `json:"run_id"`
	Timestamp       string          `json:"timestamp"`
	Task            string          `json:"task,omitempty"`
	Strategy        string          `json:"strategy"`
	WeakModel       string          `json:"weak_model"`
	StrongModel     string          `json:"strong_model"`
	Prompt          string          `json:"prompt"`
	BlockedSubtasks []string        `json:"blocked_subtasks"`
	Subtasks        []SubtaskRecord `json:"subtasks"`
}

// Writer appends run records to a JSONL file.
type Writer struct {
	Path string

	mu sync.Mutex
}

func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("runlog: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Writer{Path: path}, nil
}

// Append writes one record as a JSON line.
func (w *Writer) Append(record RunRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	file, err := os.OpenFile(w.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.Write(append(line, '\n'))
	return err
}

// NowISO is the timestamp format used across run records.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
