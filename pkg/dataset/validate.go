package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// Problem is one validation finding with the file it concerns.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string { return p.Path + ": " + p.Message }

// Validate checks a dataset tree: the manifest and every item must parse,
// match its schema, and have all required files on disk. It returns every
// problem found rather than stopping at the first.
func Validate(root string) ([]Problem, error) {
	var problems []Problem
	add := func(path, format string, args ...any) {
		problems = append(problems, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	manifestPath := filepath.Join(root, "manifest.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("dataset: read manifest: %w", err)
	}
	if probs := validateAgainst(manifestSchema, data); len(probs) > 0 {
		for _, msg := range probs {
			add(manifestPath, "%s", msg)
		}
	}
	var man Manifest
	if err := json.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("dataset: parse manifest: %w", err)
	}
	if man.Count != len(man.Items) {
		add(manifestPath, "count is %d but %d items listed", man.Count, len(man.Items))
	}

	for _, id := range man.Items {
		itemDir := filepath.Join(root, "items", id)
		if _, err := os.Stat(itemDir); err != nil {
			add(itemDir, "item directory missing")
			continue
		}
		problems = append(problems, validateItem(itemDir, id)...)
	}
	return problems, nil
}

var requiredItemFiles = []string{
	filepath.Join("inputs", "prompt.txt"),
	filepath.Join("expected", "description.txt"),
	filepath.Join("expected", "target.txt"),
}

func validateItem(itemDir, id string) []Problem {
	var problems []Problem
	add := func(path, format string, args ...any) {
		problems = append(problems, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	for _, rel := range requiredItemFiles {
		path := filepath.Join(itemDir, rel)
		info, err := os.Stat(path)
		switch {
		case err != nil:
			add(path, "missing")
		case info.Size() == 0:
			add(path, "empty")
		}
	}

	metaPath := filepath.Join(itemDir, "meta.json")
	if data, err := os.ReadFile(metaPath); err != nil {
		add(metaPath, "missing")
	} else {
		for _, msg := range validateAgainst(metaSchema, data) {
			add(metaPath, "%s", msg)
		}
		var meta ItemMeta
		if err := json.Unmarshal(data, &meta); err == nil && meta.ID != id {
			add(metaPath, "id %q does not match directory %q", meta.ID, id)
		}
	}

	checksPath := filepath.Join(itemDir, "expected", "checks.json")
	if data, err := os.ReadFile(checksPath); err != nil {
		add(checksPath, "missing")
	} else {
		for _, msg := range validateAgainst(checksSchema, data) {
			add(checksPath, "%s", msg)
		}
	}
	return problems
}

func validateAgainst(schema string, doc []byte) []string {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return []string{"not valid JSON: " + err.Error()}
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return msgs
}
