package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"decompbench/pkg/gen"
	"decompbench/pkg/runlog"
	"decompbench/pkg/safety"
)

// GenerateConfig controls dataset generation.
type GenerateConfig struct {
	OutDir     string
	Count      int
	Categories []Category
	Workers    int
	// Caller produces DOC/IMS target text. Nil means the built-in
	// fallback targets are used.
	Caller  *gen.Caller
	Checker *safety.Checker
}

func (c GenerateConfig) normalized() GenerateConfig {
	if c.Count <= 0 {
		c.Count = 10
	}
	if len(c.Categories) == 0 {
		c.Categories = AllCategories
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Checker == nil {
		c.Checker = &safety.Checker{Policy: safety.DefaultPolicy()}
	}
	return c
}

// Generate builds a dataset tree under cfg.OutDir:
//
//	manifest.json
//	README.md
//	schemas/*.schema.json
//	items/<id>/inputs/prompt.txt          (+ attachments)
//	items/<id>/expected/description.txt
//	items/<id>/expected/target.txt
//	items/<id>/expected/checks.json
//	items/<id>/meta.json
//
// Items cycle through the configured categories. Every prompt and
// target passes the safety policy before it is written.
func Generate(ctx context.Context, cfg GenerateConfig) (*Manifest, error) {
	cfg = cfg.normalized()
	if cfg.OutDir == "" {
		return nil, fmt.Errorf("dataset: output directory required")
	}
	if err := os.MkdirAll(filepath.Join(cfg.OutDir, "items"), 0o755); err != nil {
		return nil, fmt.Errorf("dataset: create output tree: %w", err)
	}
	if err := WriteSchemas(cfg.OutDir); err != nil {
		return nil, err
	}

	ids := make([]string, cfg.Count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Count; i++ {
		i := i
		g.Go(func() error {
			cat := cfg.Categories[i%len(cfg.Categories)]
			id, err := writeItem(gctx, cfg, cat, i)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	man := &Manifest{
		Version:    manifestVersion,
		Count:      cfg.Count,
		Categories: cfg.Categories,
		Items:      ids,
	}
	if err := writeJSON(filepath.Join(cfg.OutDir, "manifest.json"), man); err != nil {
		return nil, err
	}
	if err := writeReadme(cfg.OutDir, man); err != nil {
		return nil, err
	}
	return man, nil
}

func writeItem(ctx context.Context, cfg GenerateConfig, cat Category, idx int) (string, error) {
	tmpl, ok := templates[cat]
	if !ok {
		return "", fmt.Errorf("dataset: no template for category %q", cat)
	}
	in, exp, err := tmpl(ctx, idx, cfg.Caller)
	if err != nil {
		return "", fmt.Errorf("dataset: build %s item: %w", cat, err)
	}

	// The tree holds only benign content. A policy hit here means a
	// template regression, not an attack, so fail loudly.
	for _, text := range []string{in.TaskPrompt, exp.Description, exp.Target} {
		if err := cfg.Checker.Ensure(ctx, text, "dataset:"+string(cat)); err != nil {
			return "", fmt.Errorf("dataset: %s item rejected: %w", cat, err)
		}
	}

	id := strings.ToLower(string(cat)) + "-" + uuid.NewString()[:8]
	itemDir := filepath.Join(cfg.OutDir, "items", id)
	inputsDir := filepath.Join(itemDir, "inputs")
	expectedDir := filepath.Join(itemDir, "expected")
	for _, d := range []string{inputsDir, expectedDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", fmt.Errorf("dataset: create item dirs: %w", err)
		}
	}

	files := map[string]string{
		filepath.Join(inputsDir, "prompt.txt"):        in.TaskPrompt,
		filepath.Join(expectedDir, "description.txt"): exp.Description,
		filepath.Join(expectedDir, "target.txt"):      exp.Target,
	}
	for name, body := range in.Attachments {
		files[filepath.Join(inputsDir, name)] = body
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return "", fmt.Errorf("dataset: write %s: %w", filepath.Base(path), err)
		}
	}
	if err := writeJSON(filepath.Join(expectedDir, "checks.json"), exp.Checks); err != nil {
		return "", err
	}

	meta := ItemMeta{
		ID:               id,
		Category:         cat,
		CreatedAt:        runlog.NowISO(),
		BlacklistPassed:  true,
		ModerationPassed: cfg.Checker.Moderator != nil,
	}
	if err := writeJSON(filepath.Join(itemDir, "meta.json"), meta); err != nil {
		return "", err
	}
	return id, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("dataset: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("dataset: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeReadme(root string, man *Manifest) error {
	var b strings.Builder
	b.WriteString("# Benign Evaluation Dataset\n\n")
	fmt.Fprintf(&b, "Version %s with %d items across categories: ", man.Version, man.Count)
	cats := make([]string, len(man.Categories))
	for i, c := range man.Categories {
		cats[i] = string(c)
	}
	b.WriteString(strings.Join(cats, ", "))
	b.WriteString(".\n\nEach item lives under `items/<id>/` with model inputs in `inputs/`\n")
	b.WriteString("and the expected outcome in `expected/`. All content is benign;\n")
	b.WriteString("every prompt and target passed the safety policy at generation time.\n")
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("dataset: write README: %w", err)
	}
	return nil
}
