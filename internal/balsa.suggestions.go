package internal

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// FindSimilarStrings finds candidates that look like target.
// Subsequence matches from fuzzy come first (best score first), followed by
// candidates within a small edit distance. At most maxSuggestions are returned.
func FindSimilarStrings(target string, candidates []string, maxSuggestions int) []string {
	if len(candidates) == 0 || maxSuggestions <= 0 || target == "" {
		return nil
	}

	result := make([]string, 0, maxSuggestions)
	seen := make(map[string]bool)

	for _, m := range fuzzy.Find(target, candidates) {
		if len(result) == maxSuggestions {
			return result
		}
		if m.Str == target || seen[m.Str] {
			continue
		}
		seen[m.Str] = true
		result = append(result, m.Str)
	}

	maxDistance := len(target) / 2
	if maxDistance < 2 {
		maxDistance = 2
	}

	type scored struct {
		str      string
		distance int
	}

	var similar []scored
	targetLower := strings.ToLower(target)
	for _, candidate := range candidates {
		if candidate == target || seen[candidate] {
			continue
		}
		dist := levenshteinDistance(targetLower, strings.ToLower(candidate))
		if dist <= maxDistance {
			similar = append(similar, scored{str: candidate, distance: dist})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].distance < similar[j].distance
	})

	for _, s := range similar {
		if len(result) == maxSuggestions {
			break
		}
		result = append(result, s.str)
	}

	return result
}

// levenshteinDistance is the minimum number of single-character edits
// turning a into b.
func levenshteinDistance(a, b string) int {
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
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// FormatSuggestions formats a list of suggestions as a human-readable string.
// Example output: ". Did you mean 'name', 'names' or 'named'?"
func FormatSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	if len(suggestions) == 1 {
		return ". Did you mean '" + suggestions[0] + "'?"
	}

	var sb strings.Builder
	sb.WriteString(". Did you mean ")

	for i, s := range suggestions {
		if i > 0 {
			if i == len(suggestions)-1 {
				sb.WriteString(" or ")
			} else {
				sb.WriteString(", ")
			}
		}
		sb.WriteByte('\'')
		sb.WriteString(s)
		sb.WriteByte('\'')
	}

	sb.WriteByte('?')
	return sb.String()
}
