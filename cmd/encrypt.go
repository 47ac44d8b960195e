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
	encryptString    string
	encryptFile      string
	encryptStdin     bool
	encryptOutput    string
	encryptLabel     string
	encryptPublicKey string
	encryptEyaml     []string
	encryptDryRun    bool
)

func init() {
	encryptCmd.Flags().StringVarP(&encryptString, "string", "s", "", "value to encrypt")
	encryptCmd.Flags().StringVarP(&encryptFile, "file", "f", "", "file whose contents to encrypt")
	encryptCmd.Flags().BoolVar(&encryptStdin, "stdin", false, "read the value to encrypt from stdin")
	encryptCmd.Flags().StringVarP(&encryptOutput, "output", "o", "", "output format: string, block or yaml")
	encryptCmd.Flags().StringVarP(&encryptLabel, "label", "l", "", "key name for yaml output")
	encryptCmd.Flags().StringVar(&encryptPublicKey, "public-key", "", "path to the public key")
	encryptCmd.Flags().StringSliceVarP(&encryptEyaml, "eyaml", "e", nil, "encrypt DEC::PKCS7[...]! markers in files (globs and directories allowed)")
	encryptCmd.Flags().BoolVar(&encryptDryRun, "dry-run", false, "print what would change without writing files")
}

func resetEncryptState() {
	encryptString = ""
	encryptFile = ""
	encryptStdin = false
	encryptOutput = ""
	encryptLabel = ""
	encryptPublicKey = ""
	encryptEyaml = nil
	encryptDryRun = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a value or the edit markers in YAML files",
	Long: `Encrypts a value for the public key and prints it as ENC[PKCS7,...].

The value comes from exactly one of -s, -f or --stdin and is encrypted byte
for byte, so a trailing newline in a file or on stdin is kept.

With -e, every DEC::PKCS7[...]! marker in the given files is encrypted in
place. Markers are produced by 'eyaml edit-markers'.

Examples:
  eyaml encrypt -s 'hunter2'
  eyaml encrypt -f ./tls.key -o block
  echo -n 'hunter2' | eyaml encrypt --stdin -o yaml -l db_password
  eyaml encrypt -e 'hieradata/**/*.yaml' --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		ctx := context.Background()
		keys := keyOptions(encryptPublicKey, "")

		if len(encryptEyaml) > 0 {
			return runEncryptFiles(ctx, cmd, keys)
		}
		if encryptDryRun {
			return fmt.Errorf("%s only applies to %s", ui.Flag.Sprint("--dry-run"), ui.Flag.Sprint("--eyaml"))
		}

		plaintext, err := readInput(cmd, encryptString, encryptFile, encryptStdin)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read input: %w", err)
		}
		Logger.Debugf("Read %d bytes of plaintext", len(plaintext))

		result, err := workflows.Encrypt(ctx, workflows.EncryptOptions{
			Keys:      keys,
			Plaintext: plaintext,
			Format:    encryptOutput,
			Label:     encryptLabel,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to encrypt: %w", err)
		}
		Logger.Infof("Encrypted value for %s", result.PublicKeyPath)

		fmt.Fprint(cmd.OutOrStdout(), result.Output)
		return nil
	},
}

func runEncryptFiles(ctx context.Context, cmd *cobra.Command, keys workflows.KeyOptions) error {
	spinner, cleanup := startSpinner(cmd, "Encrypting markers...")
	defer cleanup()

	result, err := workflows.EncryptFiles(ctx, workflows.EncryptFilesOptions{
		Keys:         keys,
		FilePatterns: encryptEyaml,
		DryRun:       encryptDryRun,
	})
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to encrypt markers"
		return Logger.ErrorfAndReturn("failed to encrypt files: %w", err)
	}

	total := result.Total()
	switch {
	case total == 0:
		spinner.FinalMSG = ui.Warning.Sprint("⚠") + " No " + ui.Token.Sprint("DEC::PKCS7[...]!") + " markers found"
	case result.DryRun:
		spinner.FinalMSG = ui.Info.Sprint("ℹ") + fmt.Sprintf(" Would encrypt %d values in:", total) + utils.FormatPaths(changedPaths(result.Files))
	default:
		spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Encrypted %d values in:", total) + utils.FormatPaths(changedPaths(result.Files))
	}
	return nil
}
