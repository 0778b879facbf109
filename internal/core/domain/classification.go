package domain

import "sort"

// Classification is the mandatory first tag identifying an exercise's
// category.
type Classification string

// Known classification tags.
const (
	ClassificationExercise    Classification = "exercise"
	ClassificationRegular     Classification = "regular exercise"
	ClassificationHomework    Classification = "homework"
	ClassificationProgramming Classification = "programming"
	ClassificationExam        Classification = "exam"
)

// IsValid returns true if the classification is recognised.
func (c Classification) IsValid() bool {
	switch c {
	case ClassificationExercise, ClassificationRegular, ClassificationHomework,
		ClassificationProgramming, ClassificationExam:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Classification) String() string {
	return string(c)
}

// NormalizeTags builds the canonical tag list for an exercise: the
// classification at index 0 followed by the topic tags deduplicated
// (case-sensitive) and sorted. The original ordering of topic tags is
// deliberately not preserved.
func NormalizeTags(classification string, topics []string) []string {
	seen := map[string]bool{classification: true}
	rest := make([]string, 0, len(topics))
	for _, t := range topics {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		rest = append(rest, t)
	}
	sort.Strings(rest)
	return append([]string{classification}, rest...)
}

// HasAnyTag reports whether the exercise tags share at least one tag
// with the filter set. Comparison is case-insensitive using ASCII
// folding; non-ASCII case folding is not supported.
func HasAnyTag(exerciseTags, filter []string) bool {
	for _, f := range filter {
		for _, t := range exerciseTags {
			if asciiEqualFold(t, f) {
				return true
			}
		}
	}
	return false
}

// asciiEqualFold compares two strings ignoring ASCII letter case.
func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
