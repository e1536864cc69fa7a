package store

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// similarityThreshold is the normalized Levenshtein similarity above which
// two question stubs count as the same question.
const similarityThreshold = 0.85

// normalizeText normalizes a question for comparison
func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// isSimilarText checks if two questions are similar based on Levenshtein distance
func isSimilarText(a, b string, threshold float64) bool {
	a, b = normalizeText(a), normalizeText(b)
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	similarity := 1.0 - (float64(distance) / float64(maxLen))
	return similarity >= threshold
}

// dedupe drops texts that are similar to an existing text or to an earlier
// text in the same batch.
func dedupe(existing, texts []string) []string {
	seen := append([]string{}, existing...)
	var out []string
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		dup := false
		for _, s := range seen {
			if isSimilarText(s, t, similarityThreshold) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, t)
		out = append(out, t)
	}
	return out
}
