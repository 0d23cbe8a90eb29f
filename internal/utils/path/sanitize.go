// Package pathutils normalizes user-supplied directory and file names.
package pathutils

import (
	"path/filepath"
	"strings"
)

// SanitizeDirectory trims whitespace, expands the home directory, and cleans the result.
// An empty input yields an empty output.
func SanitizeDirectory(expander *HomeExpander, directory string) string {
	trimmedDirectory := strings.TrimSpace(directory)
	if len(trimmedDirectory) == 0 {
		return ""
	}
	if expander == nil {
		expander = NewHomeExpander()
	}
	return filepath.Clean(expander.Expand(trimmedDirectory))
}

// SanitizeNames trims whitespace and removes empty entries while preserving order.
func SanitizeNames(candidateNames []string) []string {
	sanitizedNames := make([]string, 0, len(candidateNames))
	for _, candidateName := range candidateNames {
		trimmedName := strings.TrimSpace(candidateName)
		if len(trimmedName) == 0 {
			continue
		}
		sanitizedNames = append(sanitizedNames, trimmedName)
	}
	if len(sanitizedNames) == 0 {
		return nil
	}
	return sanitizedNames
}
