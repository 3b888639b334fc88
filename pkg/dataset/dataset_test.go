package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateBuildsCompleteTree(t *testing.T) {
	root := t.TempDir()
	man, err := Generate(context.Background(), GenerateConfig{
		OutDir: root,
		Count:  5,
	})
	require.NoError(t, err)
	require.Equal(t, 5, man.Count)
	require.Len(t, man.Items, 5)

	for _, name := range []string{"manifest.json", "README.md"} {
		_, err := os.Stat(filepath.Join(root, name))
		require.NoError(t, err, name)
	}
	for name := range schemaFiles {
		_, err := os.Stat(filepath.Join(root, "schemas", name))
		require.NoError(t, err, name)
	}

	// One item per category when count matches category count.
	seen := map[string]bool{}
	for _, id := range man.Items {
		prefix := strings.SplitN(id, "-", 2)[0]
		seen[prefix] = true

		itemDir := filepath.Join(root, "items", id)
		for _, rel := range []string{
			"inputs/prompt.txt",
			"expected/description.txt",
			"expected/target.txt",
			"expected/checks.json",
			"meta.json",
		} {
			info, err := os.Stat(filepath.Join(itemDir, filepath.FromSlash(rel)))
			require.NoError(t, err, "%s/%s", id, rel)
			require.NotZero(t, info.Size(), "%s/%s", id, rel)
		}
	}
	require.Len(t, seen, len(AllCategories))
}

func TestGeneratedTreeValidates(t *testing.T) {
	root := t.TempDir()
	_, err := Generate(context.Background(), GenerateConfig{OutDir: root, Count: 6})
	require.NoError(t, err)

	problems, err := Validate(root)
	require.NoError(t, err)
	require.Empty(t, problems)
}

func TestValidateReportsProblems(t *testing.T) {
	root := t.TempDir()
	man, err := Generate(context.Background(), GenerateConfig{OutDir: root, Count: 3})
	require.NoError(t, err)

	itemDir := filepath.Join(root, "items", man.Items[0])
	require.NoError(t, os.Remove(filepath.Join(itemDir, "inputs", "prompt.txt")))
	require.NoError(t, os.WriteFile(filepath.Join(itemDir, "meta.json"), []byte(`{"id":"wrong"}`), 0o644))

	problems, err := Validate(root)
	require.NoError(t, err)
	require.NotEmpty(t, problems)

	var missingPrompt, badMeta bool
	for _, p := range problems {
		if strings.HasSuffix(p.Path, "prompt.txt") && p.Message == "missing" {
			missingPrompt = true
		}
		if strings.HasSuffix(p.Path, "meta.json") {
			badMeta = true
		}
	}
	require.True(t, missingPrompt, "missing prompt not reported: %v", problems)
	require.True(t, badMeta, "invalid meta not reported: %v", problems)
}

func TestLoadProducesTasks(t *testing.T) {
	root := t.TempDir()
	man, err := Generate(context.Background(), GenerateConfig{OutDir: root, Count: 5})
	require.NoError(t, err)

	src, err := Load(root)
	require.NoError(t, err)

	n, err := src.Len(context.Background())
	require.NoError(t, err)
	require.Equal(t, man.Count, n)

	tasks, errs := src.Tasks(context.Background())
	var count int
	for task := range tasks {
		count++
		require.NotEmpty(t, task.ID)
		require.NotEmpty(t, task.Prompt)
		require.NotEmpty(t, task.ExpectedKeywords)
		require.True(t, ValidCategory(task.Category), task.Category)
	}
	require.NoError(t, <-errs)
	require.Equal(t, man.Count, count)
}

func TestLoadInlinesAttachments(t *testing.T) {
	root := t.TempDir()
	_, err := Generate(context.Background(), GenerateConfig{
		OutDir:     root,
		Count:      1,
		Categories: []Category{CategoryCF},
	})
	require.NoError(t, err)

	src, err := Load(root)
	require.NoError(t, err)

	tasks, errs := src.Tasks(context.Background())
	task := <-tasks
	require.NoError(t, <-errs)
	require.Contains(t, task.Prompt, "--- snippet.py ---")
	require.Contains(t, task.Prompt, "def ")
}
