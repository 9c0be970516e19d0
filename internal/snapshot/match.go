package snapshot

import (
	"path"
	"slices"
	"strings"
)

// Compiled ignore patterns.
//
// Patterns are normalized once: leading "./" and trailing "/" are removed,
// backslashes become forward slashes, and blank entries are dropped. The
// normalized patterns are sorted so that matching does not depend on the
// order the user wrote them in.
type Matcher struct {
	exact []string // Literal relative paths.
	globs []string // Patterns containing glob metacharacters.
}

// Compiles ignore patterns into a [Matcher].
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = normalize(p)
		if p == "" || p == "." {
			continue
		}
		if strings.ContainsAny(p, "*?[") {
			m.globs = append(m.globs, p)
		} else {
			m.exact = append(m.exact, p)
		}
	}
	slices.Sort(m.exact)
	m.exact = slices.Compact(m.exact)
	slices.Sort(m.globs)
	m.globs = slices.Compact(m.globs)
	return m
}

// Reports whether the slash-separated relative path is ignored.
//
// A path is ignored when it equals a pattern, lies beneath a pattern, or
// matches a glob pattern either in full or by its base name.
func (m *Matcher) Match(rel string) bool {
	for _, p := range m.exact {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}

	if len(m.globs) == 0 {
		return false
	}

	base := path.Base(rel)
	for _, g := range m.globs {
		if ok, _ := path.Match(g, rel); ok {
			return true
		}
		if !strings.Contains(g, "/") {
			if ok, _ := path.Match(g, base); ok {
				return true
			}
		}
	}

	return false
}

// Returns the normalized patterns, literals first.
func (m *Matcher) Patterns() []string {
	return append(slices.Clone(m.exact), m.globs...)
}

// Normalizes a user-supplied pattern to the walker's relative path form.
func normalize(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}
