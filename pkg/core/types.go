package core

import "time"

// Variant names for the two evaluation arrangements.
const (
	VariantSingle   = "single_model"
	VariantComposed = "composed_model"
)

// Response is a model response plus basic telemetry.
type Response struct {
	Content    string        `json:"content" yaml:"content"`
	TokenUsage TokenUsage    `json:"token_usage" yaml:"token_usage"`
	Latency    time.Duration `json:"latency" yaml:"latency"`
}

// TokenUsage captures token accounting for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" yaml:"total_tokens"`
}

// Result captures the outcome of one task under one variant.
type Result struct {
	Variant  string        `json:"variant" yaml:"variant"`
	TaskID   string        `json:"task_id" yaml:"task_id"`
	Prompt   string        `json:"prompt" yaml:"prompt"`
	Output   string        `json:"output" yaml:"output"`
	Accuracy float64       `json:"accuracy" yaml:"accuracy"`
	Success  bool          `json:"success" yaml:"success"`
	Tokens   int           `json:"tokens" yaml:"tokens"`
	Blocked  bool          `json:"blocked,omitempty" yaml:"blocked,omitempty"`
	Err      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// VariantSummary aggregates results for a single variant.
type VariantSummary struct {
	Variant        string  `json:"variant" yaml:"variant"`
	Accuracy       float64 `json:"accuracy" yaml:"accuracy"`
	SuccessRate    float64 `json:"success_rate" yaml:"success_rate"`
	MeanTokenUsage float64 `json:"mean_token_usage" yaml:"mean_token_usage"`
	Count          int     `json:"count" yaml:"count"`
}

// EvalReport is the full outcome of an evaluation run.
type EvalReport struct {
	Summary    []VariantSummary  `json:"summary" yaml:"summary"`
	Results    []Result          `json:"results" yaml:"results"`
	Trials     int               `json:"trials" yaml:"trials"`
	Seed       int64             `json:"seed" yaml:"seed"`
	Models     map[string]string `json:"models,omitempty" yaml:"models,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	StartedAt  time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time         `json:"finished_at" yaml:"finished_at"`
}

// GenerateOptions controls model generation behavior.
type GenerateOptions struct {
	Temperature  float32  `json:"temperature" yaml:"temperature"`
	MaxTokens    int      `json:"max_tokens" yaml:"max_tokens"`
	TopP         float32  `json:"top_p" yaml:"top_p"`
	Stop         []string `json:"stop" yaml:"stop"`
	SystemPrompt string   `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}
