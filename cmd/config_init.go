package cmd

import (
	"errors"
	"fmt"

	"github.com/PolarWolf314/eyaml/internal/configs"
	"github.com/PolarWolf314/eyaml/internal/eyaml"
	"github.com/PolarWolf314/eyaml/internal/ui"
	"github.com/PolarWolf314/eyaml/internal/utils"

	"github.com/spf13/cobra"
)

var (
	configInitForce      bool
	configInitPublicKey  string
	configInitPrivateKey string
	configInitFormat     string
	configInitLabel      string
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configInitCmd.Flags().StringVar(&configInitPublicKey, "public-key", "", "public key path to record")
	configInitCmd.Flags().StringVar(&configInitPrivateKey, "private-key", "", "private key path to record")
	configInitCmd.Flags().StringVarP(&configInitFormat, "output", "o", "", "default output format: string, block or yaml")
	configInitCmd.Flags().StringVarP(&configInitLabel, "label", "l", "", "default key name for yaml output")
}

func resetConfigInitState() {
	configInitForce = false
	configInitPublicKey = ""
	configInitPrivateKey = ""
	configInitFormat = ""
	configInitLabel = ""
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the eyaml config file",
	Long: `Writes a config file with the default key locations, or the ones given
with --public-key and --private-key. An existing file is left alone unless
--force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		if configInitFormat != "" {
			if _, err := eyaml.ParseOutputFormat(configInitFormat); err != nil {
				return err
			}
		}
		if configInitLabel != "" && !utils.IsValidLabel(configInitLabel) {
			return fmt.Errorf("invalid label %q", configInitLabel)
		}

		path, err := resolveConfigPath()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve config path: %w", err)
		}
		Logger.Debugf("Config path: %s", path)

		config, err := configs.Init(path, configInitForce)
		if err != nil {
			if errors.Is(err, configs.ErrConfigExists) {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning.Sprint("⚠")+" Config already exists at "+ui.Path.Sprint(path))
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Info.Sprint("→")+" Use "+ui.Flag.Sprint("--force")+" to overwrite it")
				return nil
			}
			return Logger.ErrorfAndReturn("failed to create config: %w", err)
		}

		changed := false
		if configInitPublicKey != "" {
			config.Keys.PublicKey = configInitPublicKey
			changed = true
		}
		if configInitPrivateKey != "" {
			config.Keys.PrivateKey = configInitPrivateKey
			changed = true
		}
		if configInitFormat != "" {
			config.Output.Format = configInitFormat
			changed = true
		}
		if configInitLabel != "" {
			config.Output.Label = configInitLabel
			changed = true
		}
		if changed {
			if err := configs.Save(path, config); err != nil {
				return Logger.ErrorfAndReturn("%w", err)
			}
		}

		fmt.Fprintln(cmd.ErrOrStderr(), ui.Success.Sprint("✓")+" Config written to "+ui.Path.Sprint(path))
		return nil
	},
}

// resolveConfigPath returns --config if set, otherwise the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return configs.DefaultConfigPath()
}
