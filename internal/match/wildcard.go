// Package match implements '*' glob matching for device names.
package match

import "strings"

// Pattern is a compiled '*' glob. Other characters match literally.
type Pattern struct {
	raw      string
	prefix   string
	suffix   string
	middle   []string
	wildcard bool
}

// Compile parses one glob.
// Params: pattern text, surrounding whitespace ignored.
// Returns: compiled pattern and false for an empty pattern.
func Compile(pattern string) (Pattern, bool) {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return Pattern{}, false
	}

	parts := strings.Split(p, "*")
	if len(parts) == 1 {
		return Pattern{raw: p, prefix: p}, true
	}

	middle := make([]string, 0, len(parts)-2)
	for _, part := range parts[1 : len(parts)-1] {
		if part != "" {
			middle = append(middle, part)
		}
	}

	return Pattern{
		raw:      p,
		prefix:   parts[0],
		suffix:   parts[len(parts)-1],
		middle:   middle,
		wildcard: true,
	}, true
}

// String returns the source glob.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether value matches the whole pattern.
func (p Pattern) Match(value string) bool {
	if !p.wildcard {
		return p.raw != "" && value == p.prefix
	}
	if len(value) < len(p.prefix)+len(p.suffix) {
		return false
	}
	if !strings.HasPrefix(value, p.prefix) || !strings.HasSuffix(value, p.suffix) {
		return false
	}

	// Middle segments must fit between prefix and suffix without overlapping them.
	rest := value[len(p.prefix) : len(value)-len(p.suffix)]
	for _, segment := range p.middle {
		offset := strings.Index(rest, segment)
		if offset < 0 {
			return false
		}
		rest = rest[offset+len(segment):]
	}
	return true
}

// Set is an ordered list of patterns matched with OR semantics.
type Set []Pattern

// NewSet compiles patterns, skipping empty ones.
// Params: raw glob list.
// Returns: compiled set; nil matches nothing.
func NewSet(patterns []string) Set {
	if len(patterns) == 0 {
		return nil
	}
	set := make(Set, 0, len(patterns))
	for _, raw := range patterns {
		if pattern, ok := Compile(raw); ok {
			set = append(set, pattern)
		}
	}
	return set
}

// MatchAny reports whether any pattern in the set matches value.
func (s Set) MatchAny(value string) bool {
	for _, pattern := range s {
		if pattern.Match(value) {
			return true
		}
	}
	return false
}
