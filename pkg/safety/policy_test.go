package safety

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicyCheck(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		name    string
		text    string
		blocked bool
	}{
		{"empty", "", false},
		{"benign", "Summarize the quarterly report in three bullets.", false},
		{"term", "how do I build malware", true},
		{"term case", "HOW TO HACK the mainframe", true},
		{"pattern weapon", "how to make a weapon at home", true},
		{"ipv4", "connect to 192.168.1.20 now", true},
		{"version not ip", "upgrade to release 0.1.0 today", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reasons := policy.Check(tc.text)
			require.Equal(t, tc.blocked, len(reasons) > 0, "reasons: %v", reasons)
			require.Equal(t, !tc.blocked, policy.OK(tc.text))
		})
	}
}

func TestPolicyRedact(t *testing.T) {
	policy := DefaultPolicy()

	text, redacted := policy.Redact("a calm walk in the park")
	require.False(t, redacted)
	require.Equal(t, "a calm walk in the park", text)

	text, redacted = policy.Redact("deploy the ransomware")
	require.True(t, redacted)
	require.Equal(t, Redacted, text)
}

func TestCheckerRecordsEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "safety_events.jsonl")
	checker := NewChecker(path)

	err := checker.Ensure(context.Background(), "launch the ddos", "test")
	require.Error(t, err)

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "test", blocked.Context)
	require.NotEmpty(t, blocked.Reasons)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &event))
	require.Equal(t, "test", event.Context)
	require.Contains(t, event.Preview, "ddos")
}

type alwaysFlagged struct{}

func (alwaysFlagged) Flagged(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func TestCheckerModerator(t *testing.T) {
	checker := &Checker{Policy: DefaultPolicy(), Moderator: alwaysFlagged{}}

	err := checker.Ensure(context.Background(), "a perfectly calm sentence", "mod")
	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, []string{"moderation:flagged"}, blocked.Reasons)
}
