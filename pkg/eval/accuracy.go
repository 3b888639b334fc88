package eval

import "strings"

// KeywordAccuracy is the proxy accuracy metric: the fraction of expected
// keywords present in the output, case-insensitive. No keywords means 1.0.
func KeywordAccuracy(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 1.0
	}
	lowered := strings.ToLower(text)
	hits := 0
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}
