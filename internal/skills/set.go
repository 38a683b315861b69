// Package skills manages the user's skill tags: an insertion-ordered list whose
// identity is case-insensitive.
package skills

import "strings"

// Set is an immutable, insertion-ordered collection of skill tags.
// Two tags are the same skill when they are equal after lower-casing; the
// casing of the first occurrence is kept. The zero value is an empty set.
type Set struct {
	items []string
}

// New builds a Set from a list, deduplicating case-insensitively.
func New(skills ...string) Set {
	return Set{}.merge(skills)
}

// Parse splits comma-separated input into trimmed, non-empty tokens.
// Duplicates are kept; merging into a Set removes them.
func Parse(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if tok := strings.TrimSpace(part); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Add parses raw input and merges it into the set.
// Blank input returns the set unchanged.
func (s Set) Add(raw string) Set {
	if strings.TrimSpace(raw) == "" {
		return s
	}
	return s.merge(Parse(raw))
}

// Remove drops the tag that exactly equals skill. Absent tags are a no-op.
func (s Set) Remove(skill string) Set {
	idx := -1
	for i, item := range s.items {
		if item == skill {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}

	items := make([]string, 0, len(s.items)-1)
	items = append(items, s.items[:idx]...)
	items = append(items, s.items[idx+1:]...)
	return Set{items: items}
}

// Replace discards the current tags and returns a set built from skills.
func (s Set) Replace(skills []string) Set {
	return New(skills...)
}

// Clear returns the empty set.
func (s Set) Clear() Set {
	return Set{}
}

// Len returns the number of tags.
func (s Set) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the set has no tags.
func (s Set) IsEmpty() bool {
	return len(s.items) == 0
}

// List returns a copy of the tags in insertion order.
func (s Set) List() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// String joins the tags with ", ".
func (s Set) String() string {
	return strings.Join(s.items, ", ")
}

// merge appends every candidate whose lower-cased form is not yet present.
func (s Set) merge(candidates []string) Set {
	seen := make(map[string]struct{}, len(s.items)+len(candidates))
	items := make([]string, 0, len(s.items)+len(candidates))
	for _, item := range s.items {
		seen[normalize(item)] = struct{}{}
		items = append(items, item)
	}

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := normalize(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, c)
	}

	return Set{items: items}
}

func normalize(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}
