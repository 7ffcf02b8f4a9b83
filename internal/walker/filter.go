package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names skipped during traversal. Only version
// control metadata is listed; any other directory may hold documents. Use the
// ignore file or exclude patterns to skip more.
var DefaultExcludes = []string{
	".git",
	".hg",
	".svn",
}

// IgnoreFile holds gitignore-style patterns at the root of a scan.
const IgnoreFile = ".pdfscanignore"

// shouldExcludeDir checks whether a directory name matches any default
// exclusion pattern. This is used during traversal to skip entire subtrees.
func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, everything is included.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny tries each pattern against the full relative path and then
// against the base name, so "*.pdf" and "reports/**/draft-*.pdf" both work.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads patterns from an ignore file, skipping blanks and
// comments. A missing file yields no patterns.
func loadIgnoreFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesIgnore applies gitignore-like rules: a pattern without a slash
// matches any path component, a pattern with a slash matches the whole
// relative path, and a trailing slash restricts the pattern to directories.
func matchesIgnore(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relPath)
	parts := strings.Split(normalized, "/")

	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.Trim(pattern, "/")
		if pattern == "" {
			continue
		}

		if strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, normalized); matched {
				return true
			}
			if matched, _ := doublestar.Match(pattern+"/**", normalized); matched {
				return true
			}
			continue
		}

		// The last component is the file itself.
		components := parts
		if dirOnly {
			components = parts[:len(parts)-1]
		}
		for _, part := range components {
			if matched, _ := doublestar.Match(pattern, part); matched {
				return true
			}
		}
	}
	return false
}
