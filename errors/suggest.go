package errors

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxSuggestionDistance is the largest edit distance a suggestion may have.
const MaxSuggestionDistance = 3

// MaxSuggestions caps the number of suggestions returned.
const MaxSuggestions = 3

// Suggestion is a candidate name and its distance from the misspelled one.
type Suggestion struct {
	Value    string
	Distance int
}

// splitName splits a lexical QName into its lower-cased prefix and local
// part. Keywords and NCNames have an empty prefix.
func splitName(name string) (prefix, local string) {
	name = strings.ToLower(name)
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// tolerance is the edit budget for a local name of n bytes.
func tolerance(n int) int {
	switch {
	case n <= 3:
		return 1
	case n <= 5:
		return 2
	}
	return MaxSuggestionDistance
}

// nameDistance compares local parts. When both names carry a prefix, a
// different prefix costs one more edit.
func nameDistance(targetPrefix, targetLocal, candidate string) int {
	prefix, local := splitName(candidate)
	d := fuzzy.LevenshteinDistance(targetLocal, local)
	if targetPrefix != "" && prefix != "" && prefix != targetPrefix {
		d++
	}
	return d
}

// SuggestSimilar returns the candidates closest to target, nearest first.
// Names are compared case-insensitively by their local parts, so "cont"
// suggests "fn:count" and "local:fo" suggests "local:foo".
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" || len(candidates) == 0 {
		return nil
	}
	prefix, local := splitName(target)
	limit := tolerance(len(local))
	lowered := strings.ToLower(target)

	seen := make(map[string]bool, len(candidates))
	var out []Suggestion
	for _, c := range candidates {
		if c == "" || seen[c] || strings.ToLower(c) == lowered {
			continue
		}
		seen[c] = true
		if d := nameDistance(prefix, local, c); d <= limit {
			out = append(out, Suggestion{Value: c, Distance: d})
		}
	}
	slices.SortFunc(out, func(a, b Suggestion) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), strings.Compare(a.Value, b.Value))
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// FormatSuggestions renders suggestions as a "Did you mean" hint, or ""
// when there are none.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "Did you mean '" + suggestions[0].Value + "'?"
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s.Value + "'"
	}
	return "Did you mean one of: " + strings.Join(quoted, ", ") + "?"
}
