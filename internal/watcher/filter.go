package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns returns the default patterns for folders that never
// hold trip photos: hidden folders and in-progress copy targets.
func DefaultIgnorePatterns() []string {
	return []string{
		".*",       // hidden folders
		"*.tmp",
		"*.part",
		"*.partial",
		"~*",       // editor/backup leftovers
	}
}

// FolderFilter handles filtering of folder events based on ignore patterns.
type FolderFilter struct {
	patterns []string
}

// NewFolderFilter creates a new FolderFilter with the given patterns.
// If patterns is nil or empty, default patterns are used.
func NewFolderFilter(patterns []string) *FolderFilter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &FolderFilter{
		patterns: patterns,
	}
}

// ShouldIgnore checks if a path matches any of the ignore patterns.
// It matches against the base name only. Patterns support glob syntax:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [abc] matches any character in the set
func (f *FolderFilter) ShouldIgnore(path string) bool {
	name := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}

		// Extension-style patterns like ".tmp" also match as a suffix.
		if strings.HasPrefix(pattern, ".") && !strings.Contains(pattern, "*") {
			if strings.HasSuffix(strings.ToLower(name), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}

// Patterns returns the current ignore patterns.
func (f *FolderFilter) Patterns() []string {
	result := make([]string, len(f.patterns))
	copy(result, f.patterns)
	return result
}
