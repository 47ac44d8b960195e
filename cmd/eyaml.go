package cmd

import (
	"fmt"

	logger "github.com/PolarWolf314/eyaml/internal/logging"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger

	// RootCmd is the eyaml command.
	RootCmd = &cobra.Command{
		Use:   "eyaml",
		Short: "Encrypt and decrypt ENC[PKCS7,...] values in YAML files",
		Long: `eyaml encrypts individual values for a recipient's RSA public key and
stores them as ENC[PKCS7,...] strings that can live in YAML files under
version control. Only the holder of the matching private key can decrypt them.

Keys are read from ~/.eyaml/public_key.pkcs7.pem and
~/.eyaml/private_key.pkcs7.pem unless the config file or a flag says
otherwise.

Examples:
  # Encrypt a value and print it ready to paste into a YAML file
  eyaml encrypt -s 'hunter2' -o yaml -l db_password

  # Decrypt every value in a file
  eyaml decrypt -f hieradata/common.yaml

  # Edit encrypted values: turn them into markers, edit, re-encrypt
  eyaml edit-markers -f hieradata/common.yaml
  eyaml encrypt -e hieradata/common.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.ErrOrStderr(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			banner := figure.NewFigure("eyaml", "", true)
			fmt.Fprintln(cmd.OutOrStdout(), banner.String())
			_ = cmd.Help()
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <user config dir>/eyaml/config.toml)")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(editMarkersCmd)
	RootCmd.AddCommand(inspectCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	resetEncryptState()
	resetDecryptState()
	resetEditMarkersState()
	resetInspectState()
	resetConfigState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed marker on every flag of cmd and
// its subcommands to prevent test pollution.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) { flag.Changed = false }
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}
