package safety

import "context"

// Moderator is an optional second safety layer, typically a remote
// moderation endpoint. Implementations should allow by default when the
// endpoint is unreachable.
type Moderator interface {
	Flagged(ctx context.Context, text string) (bool, error)
}

// Checker combines the local policy with an optional moderator and records
// every block to the event log.
type Checker struct {
	Policy    *Policy
	Moderator Moderator
	Events    *EventLog
}

// NewChecker returns a checker over the default policy.
func NewChecker(eventPath string) *Checker {
	return &Checker{
		Policy: DefaultPolicy(),
		Events: &EventLog{Path: eventPath},
	}
}

// Ensure returns a *BlockedError when text fails the policy or is flagged
// by the moderator. Moderator errors are treated as allow.
func (c *Checker) Ensure(ctx context.Context, text, blockContext string) error {
	policy := c.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}

	if reasons := policy.Check(text); len(reasons) > 0 {
		c.Events.Record(blockContext, reasons, text)
		return &BlockedError{Context: blockContext, Reasons: reasons}
	}

	if c.Moderator != nil {
		flagged, err := c.Moderator.Flagged(ctx, text)
		if err == nil && flagged {
			reasons := []string{"moderation:flagged"}
			c.Events.Record(blockContext, reasons, text)
			return &BlockedError{Context: blockContext, Reasons: reasons}
		}
	}
	return nil
}

// OK is the boolean form of Ensure.
func (c *Checker) OK(ctx context.Context, text string) bool {
	return c.Ensure(ctx, text, "") == nil
}
