package dataset

import (
	"context"
	"fmt"

	"decompbench/pkg/gen"
)

// itemTemplate builds the input and expected output for one item of a
// category. The index varies the surface content so items within a
// category are not identical.
type itemTemplate func(ctx context.Context, idx int, caller *gen.Caller) (ItemInput, ItemExpected, error)

var templates = map[Category]itemTemplate{
	CategoryCF:  codeRefactorItem,
	CategoryCFG: configDebugItem,
	CategoryDI:  dataNormalizeItem,
	CategoryDOC: docSynthesisItem,
	CategoryIMS: incidentSummaryItem,
}

var refactorFuncs = []struct {
	name, body, keyword string
}{
	{"sum_even", "def sum_even(xs):\n    total = 0\n    for x in xs:\n        if x % 2 == 0:\n            total = total + x\n    return total\n", "sum"},
	{"count_words", "def count_words(text):\n    n = 0\n    for w in text.split(' '):\n        if w != '':\n            n = n + 1\n    return n\n", "split"},
	{"max_value", "def max_value(xs):\n    best = xs[0]\n    for x in xs:\n        if x > best:\n            best = x\n    return best\n", "max"},
}

func codeRefactorItem(_ context.Context, idx int, _ *gen.Caller) (ItemInput, ItemExpected, error) {
	f := refactorFuncs[idx%len(refactorFuncs)]
	in := ItemInput{
		TaskPrompt: fmt.Sprintf("Refactor the function %s in snippet.py to be shorter and more idiomatic while preserving behavior. Explain the change in one sentence.", f.name),
		Attachments: map[string]string{
			"snippet.py": f.body,
		},
	}
	exp := ItemExpected{
		Description: fmt.Sprintf("A shorter, behavior-preserving rewrite of %s with a one-sentence explanation.", f.name),
		Checks:      map[string]string{"contains": f.keyword},
		Target:      fmt.Sprintf("A concise rewrite of %s using a builtin such as %s, plus a one-sentence rationale.", f.name, f.keyword),
	}
	return in, exp, nil
}

var configBugs = []struct {
	cfg, bug, keyword string
}{
	{"server:\n  port: \"eighty\"\n  host: localhost\n", "port must be an integer", "port"},
	{"retries: -3\ntimeout_s: 30\n", "retries must be non-negative", "retries"},
	{"log_level: verbose\noutput: stdout\n", "log_level must be one of debug, info, warn, error", "log_level"},
}

func configDebugItem(_ context.Context, idx int, _ *gen.Caller) (ItemInput, ItemExpected, error) {
	b := configBugs[idx%len(configBugs)]
	in := ItemInput{
		TaskPrompt:  "The YAML config in app.yaml fails validation. Identify the invalid field, explain why it is invalid, and show the corrected config.",
		Attachments: map[string]string{"app.yaml": b.cfg},
	}
	exp := ItemExpected{
		Description: "Identifies the invalid field (" + b.bug + ") and provides a corrected config.",
		Checks:      map[string]string{"contains": b.keyword},
		Target:      "Points out that " + b.bug + " and shows a fixed YAML document.",
	}
	return in, exp, nil
}

var messyRecords = []struct {
	raw, keyword string
}{
	{"name: Ada Lovelace ; email: ADA@example.COM ; joined: 1993/12/10\nname: grace hopper;email: grace@Example.com ;joined: 1992-01-07\n", "email"},
	{"id=42, city= berlin , country=DE\nid=7,city=PARIS,country= fr\n", "city"},
}

func dataNormalizeItem(_ context.Context, idx int, _ *gen.Caller) (ItemInput, ItemExpected, error) {
	r := messyRecords[idx%len(messyRecords)]
	in := ItemInput{
		TaskPrompt:  "Normalize the records in records.txt into clean JSON: trim whitespace, lowercase emails and city names, and use ISO dates. Output a JSON array.",
		Attachments: map[string]string{"records.txt": r.raw},
	}
	exp := ItemExpected{
		Description: "A JSON array of normalized records with trimmed, lowercased fields and ISO dates.",
		Checks:      map[string]string{"contains": r.keyword},
		Target:      "A JSON array where every field is trimmed, emails and cities are lowercase, and dates are YYYY-MM-DD.",
	}
	return in, exp, nil
}

var docTopics = []string{
	"setting up a local development environment for a Go web service",
	"writing effective table-driven tests",
	"structuring configuration for a command-line tool",
}

type docOut struct {
	Summary string `json:"summary"`
	Target  string `json:"target"`
}

var docSchema = []byte(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "target": {"type": "string"}
  },
  "required": ["summary", "target"]
}`)

func docSynthesisItem(ctx context.Context, idx int, caller *gen.Caller) (ItemInput, ItemExpected, error) {
	topic := docTopics[idx%len(docTopics)]
	in := ItemInput{
		TaskPrompt: fmt.Sprintf("Write a short how-to document (three to five paragraphs) about %s. Include a one-line summary at the top.", topic),
	}
	exp := ItemExpected{
		Description: "A short how-to document on " + topic + " with a leading one-line summary.",
		Checks:      map[string]string{"contains": "summary"},
		Target:      "A clear multi-paragraph how-to on " + topic + ".",
	}
	if caller != nil {
		var out docOut
		err := caller.Call(ctx,
			"You draft concise technical documentation targets for benign evaluation items.",
			"Produce a one-line summary and a short target document about: "+topic,
			docSchema, &out)
		if err == nil && out.Target != "" {
			exp.Target = out.Target
		}
	}
	return in, exp, nil
}

var incidents = []struct {
	log, keyword string
}{
	{"12:01 api latency p99 rose to 2.4s\n12:04 cache hit rate dropped to 31%\n12:07 cache nodes restarted after deploy 4711\n12:15 latency recovered\n", "cache"},
	{"09:30 disk usage on db-1 reached 96%\n09:42 writes began failing with ENOSPC\n09:55 old WAL segments purged, usage 61%\n10:02 writes recovered\n", "disk"},
}

type incidentOut struct {
	Summary string `json:"summary"`
}

var incidentSchema = []byte(`{
  "type": "object",
  "properties": {"summary": {"type": "string"}},
  "required": ["summary"]
}`)

func incidentSummaryItem(ctx context.Context, idx int, caller *gen.Caller) (ItemInput, ItemExpected, error) {
	inc := incidents[idx%len(incidents)]
	in := ItemInput{
		TaskPrompt:  "Summarize the incident timeline in timeline.txt in at most four sentences: what happened, the likely cause, and the resolution.",
		Attachments: map[string]string{"timeline.txt": inc.log},
	}
	exp := ItemExpected{
		Description: "A four-sentence-or-less incident summary covering impact, cause, and resolution.",
		Checks:      map[string]string{"contains": inc.keyword},
		Target:      "A brief summary naming the " + inc.keyword + " issue as the cause and noting the recovery.",
	}
	if caller != nil {
		var out incidentOut
		err := caller.Call(ctx,
			"You draft reference summaries for benign incident-report evaluation items.",
			"Summarize this timeline in at most four sentences:\n"+inc.log,
			incidentSchema, &out)
		if err == nil && out.Summary != "" {
			exp.Target = out.Summary
		}
	}
	return in, exp, nil
}
