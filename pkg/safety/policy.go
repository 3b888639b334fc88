package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// BlockedError reports text that failed the content policy.
type BlockedError struct {
	Context string
	Reasons []string
}

func (e *BlockedError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("safety: text blocked (%s)", strings.Join(e.Reasons, ", "))
	}
	return fmt.Sprintf("safety: text blocked in %s (%s)", e.Context, strings.Join(e.Reasons, ", "))
}

// Policy is a conservative local content policy: a case-insensitive term
// blocklist plus regex patterns for structured matches. It blocks, it never
// rewrites.
type Policy struct {
	Terms    []string
	Patterns []*regexp.Regexp
}

var defaultTerms = []string{
	// Violence / terrorism
	"kill", "murder", "terror", "bomb", "weapon", "shoot", "suicide",
	// Cybercrime
	"hack", "exploit", "malware", "ransomware", "phishing", "keylogger",
	"ddos", "rce", "reverse shell", "payload",
	// Credentials and sensitive material
	"api_key=", "aws_secret", "token=", "password=", "private key",
	"/etc/passwd",
	// Dangerous commands
	"rm -rf", "chmod +x", "sudo ",
	// Illegal activity
	"drug manufacturing", "counterfeit", "forgery",
	// Adult content, conservative
	"porn", "nude", "explicit", "sex",
	// Self-harm and gore
	"self harm", "self-harm", "gore", "torture",
}

var defaultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhow to (build|make|buy) (a )?(weapon|bomb)\b`),
	regexp.MustCompile(`(?i)\b(bypass|break|crack) (security|password|drm)\b`),
	regexp.MustCompile(`(?i)\bmanufactur(e|ing) (drugs|narcotics)\b`),
	// JWT-shaped blobs
	regexp.MustCompile(`\b[A-Za-z0-9_]{16,}\.[A-Za-z0-9_\-]{10,}\.[A-Za-z0-9_\-]{10,}`),
	// IPv4 literals
	regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}\b`),
}

// DefaultPolicy returns the built-in benign-only policy.
func DefaultPolicy() *Policy {
	return &Policy{
		Terms:    defaultTerms,
		Patterns: defaultPatterns,
	}
}

// Check returns block reasons for text; an empty slice means the text
// passed. Empty text always passes.
func (p *Policy) Check(text string) []string {
	if text == "" {
		return nil
	}
	lowered := strings.ToLower(text)

	var reasons []string
	for _, term := range p.Terms {
		if term != "" && strings.Contains(lowered, strings.ToLower(term)) {
			reasons = append(reasons, "term:"+term)
		}
	}
	for _, pattern := range p.Patterns {
		if pattern.MatchString(text) {
			reasons = append(reasons, "pattern:"+pattern.String())
		}
	}
	return reasons
}

// OK reports whether text passes the policy.
func (p *Policy) OK(text string) bool {
	return len(p.Check(text)) == 0
}

// Redact returns a placeholder for blocked text, unchanged text otherwise.
func (p *Policy) Redact(text string) (string, bool) {
	if p.OK(text) {
		return text, false
	}
	return Redacted, true
}

// Redacted is the placeholder substituted for blocked content.
const Redacted = "[REDACTED for safety]"
