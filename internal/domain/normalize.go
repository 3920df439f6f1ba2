package domain

import "strings"

// NormalizeName canonicalizes an ingredient or dish name for joins across
// source files: lowercase, trimmed, separators collapsed to single spaces.
// "Olive_Oil" and " olive  oil " resolve to the same key.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}
