package eyaml

import (
	"fmt"
	"strings"
)

// OutputFormat selects how an encrypted value is printed.
type OutputFormat string

const (
	// OutputString prints the value on one line.
	OutputString OutputFormat = "string"
	// OutputBlock prints a folded YAML block scalar.
	OutputBlock OutputFormat = "block"
	// OutputYAML prints a "label: >" mapping entry ready to paste into a file.
	OutputYAML OutputFormat = "yaml"
)

const (
	blockWidth  = 60
	blockIndent = "    "
	// DefaultLabel is the mapping key used by OutputYAML when none is given.
	DefaultLabel = "value"
)

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputString, OutputBlock, OutputYAML:
		return f, nil
	case "":
		return OutputString, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want string, block or yaml)", s)
	}
}

// FormatValue renders token in the given format. label is only used by
// OutputYAML.
func FormatValue(token string, format OutputFormat, label string) string {
	switch format {
	case OutputBlock:
		return ">\n" + fold(token)
	case OutputYAML:
		if label == "" {
			label = DefaultLabel
		}
		return label + ": >\n" + fold(token)
	default:
		return token + "\n"
	}
}

func fold(token string) string {
	var b strings.Builder
	for len(token) > 0 {
		n := min(blockWidth, len(token))
		b.WriteString(blockIndent)
		b.WriteString(token[:n])
		b.WriteByte('\n')
		token = token[n:]
	}
	return b.String()
}
