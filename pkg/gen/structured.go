package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"decompbench/pkg/core"
	"decompbench/pkg/safety"
)

// Caller requests strict-JSON structured output from a model, with
// safety checks on both sides of the call and bounded retries on
// malformed replies.
type Caller struct {
	Model       core.Model
	Checker     *safety.Checker
	MaxAttempts int
	Backoff     time.Duration
	Offline     bool
}

const structuredInstruction = "Return ONLY a JSON object that strictly matches this JSON Schema. " +
	"Do not include any extra text.\nSCHEMA:\n"

// Call fills out (a pointer to struct) from the model's JSON reply. In
// offline mode the struct is populated with deterministic mock values and
// no model is called.
func (c Caller) Call(ctx context.Context, system, user string, schema json.RawMessage, out any) error {
	checker := c.Checker
	if checker == nil {
		checker = &safety.Checker{Policy: safety.DefaultPolicy()}
	}
	if err := checker.Ensure(ctx, system, "structured:system"); err != nil {
		return err
	}
	if err := checker.Ensure(ctx, user, "structured:user"); err != nil {
		return err
	}

	if c.Offline || c.Model == nil {
		return FillMock(out)
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	prompt := user
	systemPrompt := system + "\n" + structuredInstruction + string(schema)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := c.Model.Generate(ctx, prompt, core.GenerateOptions{
			MaxTokens:    512,
			Temperature:  0.2,
			SystemPrompt: systemPrompt,
		})
		if err != nil {
			return err
		}
		if err := checker.Ensure(ctx, resp.Content, "structured:output"); err != nil {
			return err
		}

		parseErr := json.Unmarshal([]byte(stripFences(resp.Content)), out)
		if parseErr == nil {
			return nil
		}
		lastErr = parseErr

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff * time.Duration(attempt+1)):
			}
		}
	}
	return fmt.Errorf("gen: structured output failed after %d attempts: %w", attempts, lastErr)
}

// stripFences removes a surrounding Markdown code fence if present.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// FillMock populates a pointer-to-struct with deterministic safe values:
// "mock <field>" for strings, empty for slices and maps, zero for numbers.
func FillMock(out any) error {
	value := reflect.ValueOf(out)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("gen: mock fill requires a pointer to struct")
	}
	elem := value.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString("mock " + strings.ToLower(elem.Type().Field(i).Name))
		case reflect.Slice:
			field.Set(reflect.MakeSlice(field.Type(), 0, 0))
		case reflect.Map:
			field.Set(reflect.MakeMap(field.Type()))
		default:
			field.Set(reflect.Zero(field.Type()))
		}
	}
	return nil
}
