package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is read from the root of every listed tree.
const IgnoreFileName = ".photocatignore"

// ignorePattern is a parsed ignore pattern with its matching strategy.
type ignorePattern struct {
	pattern   string
	matchPath bool // match against the relative path instead of the basename
}

// IgnoreMatcher checks paths against a set of glob patterns.
// Patterns without '/' match the basename of a file or directory.
// Patterns with '/' match the whole slash-separated path relative to the listed root.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []ignorePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, ignorePattern{
			pattern:   strings.TrimSuffix(raw, "/"),
			matchPath: strings.Contains(strings.TrimSuffix(raw, "/"), "/"),
		})
	}
	return &IgnoreMatcher{patterns: patterns}
}

// With returns a matcher holding the patterns of m followed by rawPatterns.
func (m *IgnoreMatcher) With(rawPatterns []string) *IgnoreMatcher {
	extra := NewIgnoreMatcher(rawPatterns)
	combined := make([]ignorePattern, 0, len(m.patterns)+len(extra.patterns))
	combined = append(combined, m.patterns...)
	combined = append(combined, extra.patterns...)
	return &IgnoreMatcher{patterns: combined}
}

// Match reports whether relativePath should be skipped.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	if len(m.patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relativePath)
	basename := filepath.Base(relativePath)

	for _, p := range m.patterns {
		subject := basename
		if p.matchPath {
			subject = normalized
		}
		matched, err := filepath.Match(p.pattern, subject)
		if err != nil {
			// malformed pattern, never matches
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ParseIgnoreFile reads an ignore file and returns its raw lines.
// A missing file yields no patterns and no error.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
