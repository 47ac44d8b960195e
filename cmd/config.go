package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage eyaml configuration",
	Long: `Provides commands for managing the eyaml config file.

The config file records where the key pair lives and the default output
format, so they don't have to be passed on every command. It is read from
<user config dir>/eyaml/config.toml unless EYAML_CONFIG or --config names
another file.

Examples:
  # Create a config file pointing at your keys
  eyaml config init --public-key ./keys/public_key.pkcs7.pem \
    --private-key ./keys/private_key.pkcs7.pem

  # Show the effective configuration
  eyaml config show`,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func resetConfigState() {
	resetConfigInitState()
}
