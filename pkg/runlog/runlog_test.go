package runlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "runs.jsonl")
	writer, err := NewWriter(path)
	require.NoError(t, err)

	first := RunRecord{
		RunID:       "run-1",
		Timestamp:   NowISO(),
		Strategy:    "automated",
		WeakModel:   "weak",
		StrongModel: "strong",
		Prompt:      "sort the list",
		Subtasks: []SubtaskRecord{
			{Subtask: "read the list", Output: "ok", PromptTokens: 3, CompletionTokens: 1},
		},
	}
	require.NoError(t, writer.Append(first))
	require.NoError(t, writer.Append(RunRecord{RunID: "run-2"}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var records []RunRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record RunRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, records, 2)
	require.Equal(t, "run-1", records[0].RunID)
	require.Len(t, records[0].Subtasks, 1)
	require.Equal(t, "run-2", records[1].RunID)
}

func TestAppendIsSafeForConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	writer, err := NewWriter(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- writer.Append(RunRecord{RunID: "concurrent"})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	require.Equal(t, 20, lines)
}

func TestNewWriterRequiresPath(t *testing.T) {
	_, err := NewWriter("")
	require.Error(t, err)
}
