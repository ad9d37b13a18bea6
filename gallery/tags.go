package gallery

import "strings"

// ParseTagNames splits a comma separated tag string, trimming entries and
// dropping blanks and case-insensitive repeats. The first spelling wins.
func ParseTagNames(s string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}
