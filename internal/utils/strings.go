package utils

import (
	"regexp"
	"strings"

	"github.com/PolarWolf314/eyaml/internal/ui"
)

// labelRegex matches keys that can be written as a plain YAML mapping key.
var labelRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-:]*$`)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// IsValidLabel reports whether label can be used as the key of a
// "label: >" block without quoting.
func IsValidLabel(label string) bool {
	if strings.HasSuffix(label, ":") {
		return false
	}
	return labelRegex.MatchString(label)
}
