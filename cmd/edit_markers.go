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
	editMarkersFiles      []string
	editMarkersPrivateKey string
)

func init() {
	editMarkersCmd.Flags().StringSliceVarP(&editMarkersFiles, "file", "f", nil, "files to convert (globs and directories allowed)")
	editMarkersCmd.Flags().StringVar(&editMarkersPrivateKey, "private-key", "", "path to the private key")
	_ = editMarkersCmd.MarkFlagRequired("file")
}

func resetEditMarkersState() {
	editMarkersFiles = nil
	editMarkersPrivateKey = ""
}

var editMarkersCmd = &cobra.Command{
	Use:   "edit-markers",
	Short: "Replace encrypted values in files with editable markers",
	Long: `Rewrites every ENC[PKCS7,...] value in the given files as a numbered
DEC(n)::PKCS7[plaintext]! marker, so the plaintext can be edited with any
editor. Run 'eyaml encrypt -e' on the same files afterwards to encrypt the
markers again.

Until then the files hold plaintext. Do not commit them.

Examples:
  eyaml edit-markers -f hieradata/common.yaml
  $EDITOR hieradata/common.yaml
  eyaml encrypt -e hieradata/common.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting edit-markers command")
		spinner, cleanup := startSpinner(cmd, "Decrypting values...")
		defer cleanup()

		result, err := workflows.MarkFiles(context.Background(), workflows.MarkFilesOptions{
			Keys:         keyOptions("", editMarkersPrivateKey),
			FilePatterns: editMarkersFiles,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to convert values to markers"
			return Logger.ErrorfAndReturn("failed to write markers: %w", err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Converted %d values to markers in:", result.Total()) +
			utils.FormatPaths(changedPaths(result.Files)) +
			"\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("eyaml encrypt -e") + " on these files when you are done editing"
		return nil
	},
}
