// Package names holds the single name-normalization rule used across the
// service. Artists on events are plain strings, so every match anywhere in
// the app must go through Normalize to stay consistent.
package names

import "strings"

// Normalize lowercases, trims and collapses internal whitespace. Applied at
// every ingestion and matching boundary; nothing inside the scoring engine
// re-derives its own matching rule.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NormalizeSet normalizes every name into a membership set.
func NormalizeSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, n := range in {
		if v := Normalize(n); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}
