package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// SanitizeFilename cleans a string to be safe as a filename:
// - Replace spaces with underscores
// - Replace forbidden characters with underscores
// - Trim duplicated underscores
// - Truncate to a reasonable length (~200 runes)
func SanitizeFilename(s string) string {
	if s == "" {
		return "untitled"
	}
	// Normalize spaces
	s = strings.ReplaceAll(s, " ", "_")
	// Replace forbidden characters
	forbidden := `[]/\:*?"<>|#%{}$!@+^~\` + "`" + `=&;`
	for _, r := range forbidden {
		s = strings.ReplaceAll(s, string(r), "_")
	}
	// Collapse runs of underscores
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "._-")

	// Truncate to 200 runes while preserving UTF-8 integrity
	const maxRunes = 200
	if utf8.RuneCountInString(s) > maxRunes {
		var b strings.Builder
		b.Grow(len(s))
		count := 0
		for _, r := range s {
			if count >= maxRunes {
				break
			}
			b.WriteRune(r)
			count++
		}
		s = b.String()
	}

	if s == "" {
		return "untitled"
	}
	return s
}

// WriteFile writes content to path, creating the parent directory first.
func WriteFile(path string, content []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}
