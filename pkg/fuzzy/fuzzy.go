package fuzzy

import (
	"math"
	"strings"
)

// LevenshteinDistance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another
func LevenshteinDistance(s1, s2 string) int {
	return editDistance(normalizeString(s1), normalizeString(s2), 1)
}

// IndelDistance is the edit distance when only insertions and deletions are allowed.
// A substitution counts as one deletion plus one insertion.
func IndelDistance(s1, s2 string) int {
	return editDistance(s1, s2, 2)
}

// Ratio returns the normalized indel similarity of two strings in [0, 1],
// rounded to a whole percent. Comparison is case-insensitive.
// An empty argument always yields 0.
func Ratio(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0
	}
	r1 := []rune(strings.ToLower(s1))
	r2 := []rune(strings.ToLower(s2))
	total := len(r1) + len(r2)

	dist := editDistanceRunes(r1, r2, 2)
	percent := math.RoundToEven(100 * (1 - float64(dist)/float64(total)))
	return percent / 100
}

func editDistance(s1, s2 string, substitutionCost int) int {
	return editDistanceRunes([]rune(s1), []rune(s2), substitutionCost)
}

func editDistanceRunes(r1, r2 []rune, substitutionCost int) int {
	m := len(r1)
	n := len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Two rolling rows are enough; only the previous row is consulted
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = substitutionCost
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// FuzzyMatch checks if query fuzzy-matches text within a given threshold
// threshold is the maximum allowed edit distance
func FuzzyMatch(query, text string, threshold int) bool {
	query = normalizeString(query)
	text = normalizeString(text)
	if query == "" || text == "" {
		return false
	}

	// If query is contained in text, it's a match
	if strings.Contains(text, query) {
		return true
	}

	// Check if any word in text fuzzy-matches the query
	for _, word := range strings.Fields(text) {
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
		if strings.HasPrefix(word, query) {
			return true
		}
	}

	return false
}

// MatchContact reports whether query fuzzy-matches any of the given contact fields.
// Typo tolerance grows with the query length.
func MatchContact(query string, fields ...string) bool {
	threshold := 2
	if len(query) <= 3 {
		threshold = 1
	} else if len(query) >= 8 {
		threshold = 3
	}

	for _, field := range fields {
		if FuzzyMatch(query, field, threshold) {
			return true
		}
	}
	return false
}

// CalculateRelevanceScore scores how relevant a contact is to a query
// Higher score = more relevant
// Searches name and email fields
func CalculateRelevanceScore(query, firstName, lastName, email string) float64 {
	query = normalizeString(query)
	score := 0.0

	fullName := normalizeString(firstName + " " + lastName)
	if strings.Contains(fullName, query) {
		score += 100.0
		if containsWord(fullName, query) {
			score += 50.0
		}
	} else {
		for _, word := range strings.Fields(fullName) {
			dist := LevenshteinDistance(query, word)
			if dist <= 2 {
				score += 50.0 - float64(dist)*15
			}
			if strings.HasPrefix(word, query) {
				score += 40.0
			}
		}
	}

	emailNorm := normalizeString(email)
	if strings.Contains(emailNorm, query) {
		score += 60.0
	} else {
		localPart := emailNorm
		if idx := strings.Index(emailNorm, "@"); idx > 0 {
			localPart = emailNorm[:idx]
		}
		if strings.HasPrefix(localPart, query) {
			score += 30.0
		}
	}

	return score
}

// Helper functions

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalizeString converts to lowercase and collapses whitespace
func normalizeString(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// containsWord checks if text contains query as a whole word
func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}
