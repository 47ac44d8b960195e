package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/eyaml/internal/ui"
	"github.com/PolarWolf314/eyaml/internal/utils"
	"github.com/PolarWolf314/eyaml/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	decryptString          string
	decryptFiles           []string
	decryptStdin           bool
	decryptPrivateKey      string
	decryptPrivateKeyStdin bool
	decryptInPlace         bool
)

func init() {
	decryptCmd.Flags().StringVarP(&decryptString, "string", "s", "", "value or document to decrypt")
	decryptCmd.Flags().StringSliceVarP(&decryptFiles, "file", "f", nil, "files to decrypt (globs and directories allowed)")
	decryptCmd.Flags().BoolVar(&decryptStdin, "stdin", false, "read the value or document from stdin")
	decryptCmd.Flags().StringVar(&decryptPrivateKey, "private-key", "", "path to the private key")
	decryptCmd.Flags().BoolVar(&decryptPrivateKeyStdin, "private-key-stdin", false, "read the private key from stdin")
	decryptCmd.Flags().BoolVar(&decryptInPlace, "in-place", false, "replace encrypted values in the files instead of printing them")
}

func resetDecryptState() {
	decryptString = ""
	decryptFiles = nil
	decryptStdin = false
	decryptPrivateKey = ""
	decryptPrivateKeyStdin = false
	decryptInPlace = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt a value or every value in YAML files",
	Long: `Decrypts ENC[PKCS7,...] values with the private key.

A single value prints its plaintext exactly as it was encrypted. A document
prints with every value replaced by its plaintext. With -f, each file is
printed in turn, or rewritten when --in-place is given.

If the private key is passphrase protected, the passphrase is read from
EYAML_PASSPHRASE or prompted for on the terminal.

Examples:
  eyaml decrypt -s 'ENC[PKCS7,MIIBiQYJKoZIhvcNAQcDoIIBejCCAXYCAQAx...]'
  eyaml decrypt -f hieradata/common.yaml
  eyaml decrypt -f 'hieradata/**/*.yaml' --in-place
  vault read -field=key secret/eyaml | eyaml decrypt --private-key-stdin -f common.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		ctx := context.Background()

		if decryptPrivateKeyStdin && decryptStdin {
			return fmt.Errorf("%s cannot be combined with %s", ui.Flag.Sprint("--private-key-stdin"), ui.Flag.Sprint("--stdin"))
		}
		if decryptInPlace && len(decryptFiles) == 0 {
			return fmt.Errorf("%s requires %s", ui.Flag.Sprint("--in-place"), ui.Flag.Sprint("--file"))
		}

		keys := keyOptions("", decryptPrivateKey)
		if decryptPrivateKeyStdin {
			Logger.Debugf("Reading private key from stdin")
			data, err := readStdin(cmd)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read private key from stdin: %w", err)
			}
			keys.PrivateKeyData = data
		}

		if len(decryptFiles) > 0 {
			if cmd.Flags().Changed("string") || decryptStdin {
				return fmt.Errorf("only one of -s, -f or --stdin may be used")
			}
			return runDecryptFiles(ctx, cmd, keys)
		}

		input, err := readInput(cmd, decryptString, "", decryptStdin)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read input: %w", err)
		}

		result, err := workflows.Decrypt(ctx, workflows.DecryptOptions{
			Keys:  keys,
			Value: string(input),
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to decrypt: %w", err)
		}
		Logger.Infof("Decrypted %d values with %s", result.Values, result.PrivateKeyPath)

		_, err = cmd.OutOrStdout().Write(result.Plaintext)
		return err
	},
}

func runDecryptFiles(ctx context.Context, cmd *cobra.Command, keys workflows.KeyOptions) error {
	result, err := workflows.DecryptFiles(ctx, workflows.DecryptFilesOptions{
		Keys:         keys,
		FilePatterns: decryptFiles,
		InPlace:      decryptInPlace,
	})
	if err != nil {
		return Logger.ErrorfAndReturn("failed to decrypt files: %w", err)
	}

	if decryptInPlace {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Success.Sprint("✓")+fmt.Sprintf(" Decrypted %d values in:", result.Total())+utils.FormatPaths(changedPaths(result.Files)))
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning.Sprint("⚠")+" The files now hold plaintext. Do not commit them.")
		return nil
	}

	out := cmd.OutOrStdout()
	for i, f := range result.Files {
		if len(result.Files) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "# %s\n", f.Path)
		}
		fmt.Fprint(out, f.Output)
	}
	Logger.Infof("Decrypted %d values from %d files", result.Total(), len(result.Files))
	return nil
}

