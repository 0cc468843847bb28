package extract

import (
	"strings"
	"unicode"
)

// DefaultDuplicateSimilarity is the name similarity at or above which two members
// with the same birth date are reported as possible duplicates.
const DefaultDuplicateSimilarity = 0.85

// DuplicatePair points at two members of the same slice that look like one person.
type DuplicatePair struct {
	First      int     `json:"first"`
	Second     int     `json:"second"`
	Similarity float64 `json:"similarity"`
}

// FindDuplicateMembers compares every pair of members with the same non-empty birth
// date and reports those whose normalized full names are at least threshold similar.
func FindDuplicateMembers(members []Member, threshold float64) []DuplicatePair {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = normalizeName(m.FirstName + " " + m.MiddleName + " " + m.LastName)
	}

	var pairs []DuplicatePair

	for i := range members {
		if members[i].DateOfBirth == "" || names[i] == "" {
			continue
		}

		for j := i + 1; j < len(members); j++ {
			if members[j].DateOfBirth != members[i].DateOfBirth || names[j] == "" {
				continue
			}

			if sim := similarity(names[i], names[j]); sim >= threshold {
				pairs = append(pairs, DuplicatePair{First: i, Second: j, Similarity: sim})
			}
		}
	}

	return pairs
}

func normalizeName(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	return strings.Join(fields, " ")
}

// similarity is 1 minus the Levenshtein distance over the longer length.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
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
