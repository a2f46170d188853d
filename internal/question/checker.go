package question

import (
	"slices"
	"strings"
)

// Checker decides whether a candidate answer matches the canonical one.
type Checker func(candidate, canonical string) bool

// ExactMatch is the default rule: case-folded, trimmed equality.
func ExactMatch(candidate, canonical string) bool {
	c := normalize(candidate)
	return c != "" && c == normalize(canonical)
}

// ContainsMatch accepts any candidate that contains the canonical answer,
// so players may echo extra text around it.
func ContainsMatch(candidate, canonical string) bool {
	c, want := normalize(candidate), normalize(canonical)
	return c != "" && want != "" && strings.Contains(c, want)
}

// SetMatch accepts a comma separated candidate holding the same elements as
// the canonical list in any order.
func SetMatch(candidate, canonical string) bool {
	if ExactMatch(candidate, canonical) {
		return true
	}
	got, want := splitList(candidate), splitList(canonical)
	if len(got) == 0 || len(got) != len(want) {
		return false
	}
	slices.Sort(got)
	slices.Sort(want)
	return slices.Equal(got, want)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(normalize(s), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
