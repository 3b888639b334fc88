package safety

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event is one JSONL safety log entry.
type Event struct {
	Timestamp string   `json:"timestamp"`
	Context   string   `json:"context"`
	Reasons   []string `json:"reasons"`
	Preview   string   `json:"preview"`
}

// EventLog appends safety events to a JSONL file. Logging failures are
// swallowed: the log must never take the harness down.
type EventLog struct {
	Path string

	mu sync.Mutex
}

const previewChars = 120

// Record appends one event for blocked text.
func (l *EventLog) Record(context string, reasons []string, text string) {
	if l == nil || l.Path == "" {
		return
	}

	preview := text
	if len(preview) > previewChars {
		preview = preview[:previewChars]
	}
	event := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Context:   context,
		Reasons:   reasons,
		Preview:   preview,
	}
	line, err := json.Marshal(event)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return
	}
	file, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.Write(append(line, '\n'))
}
