package importer

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// MatchConfidence grades how well a provider match fits the imported title.
type MatchConfidence string

const (
	ConfidenceNone MatchConfidence = "none"
	ConfidenceLow  MatchConfidence = "low"
	ConfidenceHigh MatchConfidence = "high"
)

// Titles whose normalized edit distance stays at or below this are considered
// the same work with minor spelling differences.
const highConfidenceThreshold = 0.35

// AssessConfidence compares the imported title against the provider's matched
// title. An empty match means nothing was found.
func AssessConfidence(query, matched string) MatchConfidence {
	matched = strings.TrimSpace(matched)
	if matched == "" {
		return ConfidenceNone
	}

	a := strings.ToLower(strings.TrimSpace(query))
	b := strings.ToLower(matched)
	if a == b || strings.Contains(b, a) || strings.Contains(a, b) {
		return ConfidenceHigh
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return ConfidenceNone
	}

	distance := levenshtein.ComputeDistance(a, b)
	if float64(distance)/float64(longest) <= highConfidenceThreshold {
		return ConfidenceHigh
	}
	return ConfidenceLow
}
