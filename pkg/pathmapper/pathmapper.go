// Package pathmapper resolves request paths to decorator chains.
//
// Three pattern classes are supported: exact paths ("/content"), path
// prefixes ("/docs/*") and suffixes ("*.html"), plus the universal pattern
// "/*" (or "*") as a fallback. The most specific match wins: exact beats
// prefix, prefix beats suffix, suffix beats the fallback, and among prefix
// patterns the longest one wins.
package pathmapper

import (
	"sort"
	"strings"
)

type prefixMapping struct {
	prefix     string
	decorators []string
}

type suffixMapping struct {
	suffix     string
	decorators []string
}

// Mapper maps content paths to ordered decorator chains. Build it up with
// Add at startup; it is immutable afterwards and safe for unsynchronized
// concurrent reads.
type Mapper struct {
	exact    map[string][]string
	prefixes []prefixMapping
	suffixes []suffixMapping
	fallback []string
}

func New() *Mapper {
	return &Mapper{exact: make(map[string][]string)}
}

// Add registers a decorator chain for a path pattern. Decorators are applied
// in the given order: the first wraps the content, the second wraps the
// result of the first, and so on. Add is not safe to call concurrently with
// Resolve.
func (m *Mapper) Add(pattern string, decorators ...string) {
	switch {
	case pattern == "*" || pattern == "/*":
		m.fallback = decorators
	case strings.HasSuffix(pattern, "*"):
		m.prefixes = append(m.prefixes, prefixMapping{
			prefix:     strings.TrimSuffix(pattern, "*"),
			decorators: decorators,
		})
		// longest prefix first
		sort.SliceStable(m.prefixes, func(i, j int) bool {
			return len(m.prefixes[i].prefix) > len(m.prefixes[j].prefix)
		})
	case strings.HasPrefix(pattern, "*"):
		m.suffixes = append(m.suffixes, suffixMapping{
			suffix:     strings.TrimPrefix(pattern, "*"),
			decorators: decorators,
		})
	default:
		m.exact[pattern] = decorators
	}
}

// Resolve returns the decorator chain for the given request path, or nil if
// no pattern matches. A nil chain means the path is not decorated at all.
func (m *Mapper) Resolve(path string) []string {
	if decorators, ok := m.exact[path]; ok {
		return decorators
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(path, p.prefix) {
			return p.decorators
		}
	}
	for _, s := range m.suffixes {
		if strings.HasSuffix(path, s.suffix) {
			return s.decorators
		}
	}
	return m.fallback
}
