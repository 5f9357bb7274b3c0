package dispatch

import "strings"

// DefaultRealPaths are always sent to the real backend, even when mocking.
// Logging in and out must produce a real token.
var DefaultRealPaths = []string{"/auth/login", "/auth/logout"}

// RouteMatcher decides whether a path must reach the real backend
type RouteMatcher interface {
	Matches(path string) bool
}

// PrefixMatcher matches paths starting with any of its prefixes.
// Matching is case sensitive and trailing slashes are not normalized, so
// "/auth/login" also matches "/auth/loginHistory".
type PrefixMatcher struct {
	prefixes []string
}

// NewPrefixMatcher creates a matcher over prefixes
func NewPrefixMatcher(prefixes ...string) *PrefixMatcher {
	return &PrefixMatcher{prefixes: append([]string(nil), prefixes...)}
}

func (m *PrefixMatcher) Matches(path string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Prefixes returns a copy of the configured prefixes
func (m *PrefixMatcher) Prefixes() []string {
	return append([]string(nil), m.prefixes...)
}
