package model

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const moderationInputLimit = 4000

// OpenAIModerator implements safety.Moderator over the OpenAI moderation
// endpoint. Callers treat errors as allow, so an unreachable endpoint
// degrades to the local policy alone.
type OpenAIModerator struct {
	Client  openai.Client
	Model   string
	Timeout time.Duration
}

func NewOpenAIModeratorFromEnv() (*OpenAIModerator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("moderation: OPENAI_API_KEY is required")
	}
	return &OpenAIModerator{
		Client:  openai.NewClient(option.WithAPIKey(apiKey)),
		Model:   "omni-moderation-latest",
		Timeout: 15 * time.Second,
	}, nil
}

func (m *OpenAIModerator) Flagged(ctx context.Context, text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	if len(text) > moderationInputLimit {
		text = text[:moderationInputLimit]
	}
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := m.Client.Moderations.New(ctx, openai.ModerationNewParams{
		Model: openai.ModerationModel(m.Model),
		Input: openai.ModerationNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return false, err
	}
	if len(resp.Results) == 0 {
		return false, nil
	}
	return resp.Results[0].Flagged, nil
}
