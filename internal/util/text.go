package util

import (
	"regexp"
	"strings"
)

var (
	reDeepClean = regexp.MustCompile(`[\s\x{00}-\x{1F}\x{7F}-\x{9F}\x{200B}-\x{200D}\x{FEFF}\-\./]`)
	reFileSafe  = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	reSpaces    = regexp.MustCompile(`\s+`)
)

// CleanID normalizes identifier-like cell values (truck, trailer, container
// numbers): drops whitespace, control and zero-width characters, dashes, dots
// and slashes, then uppercases. "abc-1234 / x" and "ABC1234X" compare equal.
func CleanID(input string) string {
	return strings.ToUpper(reDeepClean.ReplaceAllString(input, ""))
}

// CleanInput is the looser variant used on free-text command tokens: trim,
// uppercase, strip dashes, dots and spaces.
func CleanInput(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	return strings.NewReplacer("-", "", ".", "", " ", "").Replace(s)
}

// SanitizeFilename replaces anything unsafe for a cross-platform file name
// with an underscore.
func SanitizeFilename(input string) string {
	return reFileSafe.ReplaceAllString(input, "_")
}

func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}
