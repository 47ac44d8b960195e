package workflows

import (
	"context"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
	"github.com/PolarWolf314/eyaml/internal/eyaml"

	"gopkg.in/yaml.v3"
)

// InspectOptions configures the inspect workflow.
type InspectOptions struct {
	// Input is a value or a whole document. Every ENC[PKCS7,...] token in
	// it is inspected; input without tokens is treated as one bare base64
	// envelope.
	Input string

	// Format is "yaml" or "text". Empty means text.
	Format string
}

// InspectResult contains the decoded envelope fields.
type InspectResult struct {
	Envelopes []*eyaml.Info

	// Output is Envelopes rendered in the requested format.
	Output string
}

// Inspect reports the structure of encrypted values without decrypting
// them. No key is needed.
func Inspect(ctx context.Context, opts InspectOptions) (*InspectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input := strings.TrimSpace(opts.Input)
	if input == "" {
		return nil, kerrors.ErrNoInput
	}

	values := []string{input}
	if matches := eyaml.FindValues(input); len(matches) > 0 {
		values = values[:0]
		for _, m := range matches {
			values = append(values, m.Value)
		}
	}

	result := &InspectResult{}
	for i, v := range values {
		info, err := eyaml.Inspect(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		result.Envelopes = append(result.Envelopes, info)
	}

	switch strings.ToLower(opts.Format) {
	case "yaml":
		out, err := yaml.Marshal(result.Envelopes)
		if err != nil {
			return nil, fmt.Errorf("rendering yaml: %w", err)
		}
		result.Output = string(out)
	case "", "text":
		result.Output = renderInfoText(result.Envelopes)
	default:
		return nil, fmt.Errorf("unknown inspect format %q (want yaml or text)", opts.Format)
	}
	return result, nil
}

func renderInfoText(infos []*eyaml.Info) string {
	var b strings.Builder
	for i, info := range infos {
		if i > 0 {
			b.WriteString("\n")
		}
		status := "valid"
		if !info.Valid {
			status = "invalid: " + info.Problem
		}
		fmt.Fprintf(&b, "envelope %d (%s)\n", i+1, status)
		fmt.Fprintf(&b, "  content type:       %s\n", info.ContentType)
		fmt.Fprintf(&b, "  version:            %d\n", info.Version)
		for j, r := range info.Recipients {
			fmt.Fprintf(&b, "  recipient %d:\n", j+1)
			fmt.Fprintf(&b, "    key encryption:   %s\n", r.KeyEncryption)
			fmt.Fprintf(&b, "    encrypted key:    %d bytes\n", r.EncryptedKeyLength)
			fmt.Fprintf(&b, "    serial number:    %s\n", r.SerialNumber)
			fmt.Fprintf(&b, "    issuer attrs:     %d\n", r.IssuerAttributes)
		}
		fmt.Fprintf(&b, "  data type:          %s\n", info.DataType)
		fmt.Fprintf(&b, "  content encryption: %s\n", info.ContentEncryption)
		fmt.Fprintf(&b, "  iv:                 %s\n", info.IV)
		fmt.Fprintf(&b, "  encrypted content:  %d bytes\n", info.EncryptedContentLength)
		if info.ResidualBytes > 0 {
			fmt.Fprintf(&b, "  residual bytes:     %d\n", info.ResidualBytes)
		}
	}
	return b.String()
}
