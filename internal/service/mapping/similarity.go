// Package mapping resolves source platform fields onto the canonical target
// schema, producing the confidence-scored import plan for one entity type.
package mapping

import "strings"

// NormalizeFieldName lowercases a field name and strips everything that is
// not a letter or digit, so "Client Phone", "client_phone" and "clientPhone"
// all compare equal.
func NormalizeFieldName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CalculateSimilarity scores how alike two field names are after
// normalization: exact match 1.0, substring containment 0.8, otherwise one
// minus the normalized Levenshtein distance. Pure; used by the heuristic
// fallback path.
func CalculateSimilarity(source, target string) float64 {
	a := NormalizeFieldName(source)
	b := NormalizeFieldName(target)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes the edit distance between two strings using a
// two-row dynamic programming table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
