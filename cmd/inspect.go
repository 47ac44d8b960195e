package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/eyaml/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	inspectString string
	inspectFile   string
	inspectStdin  bool
	inspectOutput string
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectString, "string", "s", "", "value or document to inspect")
	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "file to inspect")
	inspectCmd.Flags().BoolVar(&inspectStdin, "stdin", false, "read the value or document from stdin")
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "text", "output format: text or yaml")
}

func resetInspectState() {
	inspectString = ""
	inspectFile = ""
	inspectStdin = false
	inspectOutput = "text"
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the structure of encrypted values without decrypting them",
	Long: `Decodes the envelope inside each ENC[PKCS7,...] value and prints its
fields: recipient, algorithms, IV and ciphertext length. No key is needed.

An envelope with a malformed structure is reported with the problem found
and marked invalid. Input that is not DER at all is an error.

Examples:
  eyaml inspect -s 'ENC[PKCS7,MIIBiQYJKoZIhvcNAQcDoIIBejCCAXYCAQAx...]'
  eyaml inspect -f hieradata/common.yaml -o yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting inspect command")

		input, err := readInput(cmd, inspectString, inspectFile, inspectStdin)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read input: %w", err)
		}

		result, err := workflows.Inspect(context.Background(), workflows.InspectOptions{
			Input:  string(input),
			Format: inspectOutput,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to inspect: %w", err)
		}
		Logger.Infof("Inspected %d values", len(result.Envelopes))

		fmt.Fprint(cmd.OutOrStdout(), result.Output)
		return nil
	},
}
