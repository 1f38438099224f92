// Package skills implements the loose skill comparison shared by the job query
// skills facet and the match scorer.
//
// Two skills overlap when, ignoring case, either one contains the other. This
// means "react" overlaps "React.js" and "Java" overlaps "JavaScript".
package skills

import "strings"

// Overlap reports whether a and b overlap. Blank skills never overlap.
func Overlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// OverlapsAny reports whether skill overlaps at least one of candidates.
func OverlapsAny(skill string, candidates []string) bool {
	for _, c := range candidates {
		if Overlap(skill, c) {
			return true
		}
	}
	return false
}

// Matched returns the entries of wanted that overlap at least one of have,
// preserving the order of wanted.
func Matched(wanted, have []string) []string {
	matched := make([]string, 0, len(wanted))
	for _, w := range wanted {
		if OverlapsAny(w, have) {
			matched = append(matched, w)
		}
	}
	return matched
}

// Normalize trims entries, drops blanks and removes case-insensitive
// duplicates keeping the first spelling.
func Normalize(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Split parses a comma separated list such as a query parameter.
func Split(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
